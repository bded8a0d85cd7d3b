package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/edvin/kitcatalog/internal/api/response"
	"github.com/edvin/kitcatalog/internal/core"
)

type Result struct {
	svc *core.ResultService
}

func NewResult(svc *core.ResultService) *Result {
	return &Result{svc: svc}
}

// List returns every row of the results table as a JSON array. Any failure
// is reported as 500 with the database's own message.
func (h *Result) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListAll(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("fetch results")
		response.WriteError(w, http.StatusInternalServerError, upstreamMessage(err))
		return
	}

	response.WriteJSON(w, http.StatusOK, rows)
}

func upstreamMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
