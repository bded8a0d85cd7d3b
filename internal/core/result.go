package core

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/kitcatalog/internal/model"
)

type ResultService struct {
	db DB
}

// NewResultService takes the administrative pool, not the catalog pool.
func NewResultService(db DB) *ResultService {
	return &ResultService{db: db}
}

// ListAll returns every row of the results table with all columns. Errors
// are returned unwrapped so callers can surface the database message as is.
func (s *ResultService) ListAll(ctx context.Context) ([]model.ResultRow, error) {
	rows, err := s.db.Query(ctx, `SELECT * FROM results`)
	if err != nil {
		return nil, err
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	results := make([]model.ResultRow, 0, len(maps))
	for _, m := range maps {
		results = append(results, model.ResultRow(m))
	}
	return results, nil
}
