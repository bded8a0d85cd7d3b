package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/kitcatalog/internal/model"
)

// EventPublisher receives catalog change events after they are committed.
type EventPublisher interface {
	Publish(ctx context.Context, event model.CatalogEvent) error
}

const productColumns = `id, name, description, base_price, sku, category, weight, dimensions,
	stock_quantity, intended_use, test_type, sample_type, results_time, storage_conditions,
	regulatory_approvals, kit_contents_summary, user_manual_url, warnings_and_precautions,
	is_active, created_at, updated_at`

type ProductService struct {
	db     DB
	events EventPublisher
	now    func() time.Time
}

func NewProductService(db DB, events EventPublisher) *ProductService {
	return &ProductService{db: db, events: events, now: time.Now}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.SKU, &p.Category, &p.Weight,
		&p.Dimensions, &p.StockQuantity, &p.IntendedUse, &p.TestType, &p.SampleType, &p.ResultsTime,
		&p.StorageConditions, &p.RegulatoryApprovals, &p.KitContentsSummary, &p.UserManualURL,
		&p.WarningsAndPrecautions, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// normalizeLists replaces nil list fields with empty lists so the NOT NULL
// array columns and JSON output stay consistent.
func normalizeLists(in *model.ProductInput) {
	if in.SampleType == nil {
		in.SampleType = []string{}
	}
	if in.RegulatoryApprovals == nil {
		in.RegulatoryApprovals = []string{}
	}
	if in.WarningsAndPrecautions == nil {
		in.WarningsAndPrecautions = []string{}
	}
}

// Create inserts a new product with a generated ID.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	normalizeLists(&in)
	now := s.now()

	p := &model.Product{
		ID:           uuid.NewString(),
		ProductInput: in,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		p.ID, in.Name, in.Description, in.BasePrice, in.SKU, in.Category, in.Weight, in.Dimensions,
		in.StockQuantity, in.IntendedUse, in.TestType, in.SampleType, in.ResultsTime, in.StorageConditions,
		in.RegulatoryApprovals, in.KitContentsSummary, in.UserManualURL, in.WarningsAndPrecautions,
		in.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create product %s: %w", in.SKU, ErrDuplicateSKU)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, model.EventProductCreated, p)
	return p, nil
}

// GetByID returns a single product by its ID.
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// ProductCursor encodes the sort key of p, the last item of a page. The next
// page is found by key alone, so it does not depend on p still existing.
func ProductCursor(p model.Product) string {
	b, _ := json.Marshal([2]string{p.Name, p.ID})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeProductCursor(cursor string) (name, id string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", "", ErrInvalidCursor
	}
	var key [2]string
	if err := json.Unmarshal(raw, &key); err != nil || key[1] == "" {
		return "", "", ErrInvalidCursor
	}
	return key[0], key[1], nil
}

// List returns products ordered by name then ID. cursor is empty for the
// first page, otherwise the ProductCursor of the previous page's last item.
func (s *ProductService) List(ctx context.Context, filter model.ProductFilter, limit int, cursor string) ([]model.Product, bool, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Active != nil {
		query += fmt.Sprintf(` AND is_active = $%d`, argIdx)
		args = append(args, *filter.Active)
		argIdx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if cursor != "" {
		name, id, err := decodeProductCursor(cursor)
		if err != nil {
			return nil, false, fmt.Errorf("list products: %w", err)
		}
		query += fmt.Sprintf(` AND (name, id) > ($%d, $%d)`, argIdx, argIdx+1)
		args = append(args, name, id)
		argIdx += 2
	}

	query += ` ORDER BY name, id`
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit+1)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, false, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate products: %w", err)
	}

	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}
	return products, hasMore, nil
}

// Update replaces every editable field of the product.
func (s *ProductService) Update(ctx context.Context, id string, in model.ProductInput) (*model.Product, error) {
	normalizeLists(&in)

	p, err := scanProduct(s.db.QueryRow(ctx,
		`UPDATE products SET
			name = $2, description = $3, base_price = $4, sku = $5, category = $6, weight = $7,
			dimensions = $8, stock_quantity = $9, intended_use = $10, test_type = $11,
			sample_type = $12, results_time = $13, storage_conditions = $14,
			regulatory_approvals = $15, kit_contents_summary = $16, user_manual_url = $17,
			warnings_and_precautions = $18, is_active = $19, updated_at = $20
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, in.Name, in.Description, in.BasePrice, in.SKU, in.Category, in.Weight, in.Dimensions,
		in.StockQuantity, in.IntendedUse, in.TestType, in.SampleType, in.ResultsTime, in.StorageConditions,
		in.RegulatoryApprovals, in.KitContentsSummary, in.UserManualURL, in.WarningsAndPrecautions,
		in.IsActive, s.now(),
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("update product %s: %w", id, ErrNotFound)
		case isUniqueViolation(err):
			return nil, fmt.Errorf("update product %s: %w", id, ErrDuplicateSKU)
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}

	s.publish(ctx, model.EventProductUpdated, p)
	return p, nil
}

// SetManualURL points the product at an uploaded user manual.
func (s *ProductService) SetManualURL(ctx context.Context, id, url string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE products SET user_manual_url = $2, updated_at = $3 WHERE id = $1`, id, url, s.now())
	if err != nil {
		return fmt.Errorf("set manual url for product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set manual url for product %s: %w", id, ErrNotFound)
	}

	s.publish(ctx, model.EventProductUpdated, &model.Product{ID: id})
	return nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product %s: %w", id, ErrNotFound)
	}

	s.publish(ctx, model.EventProductDeleted, &model.Product{ID: id})
	return nil
}

// publish sends a catalog event. The write has already been committed, so a
// failed publish is logged and not returned.
func (s *ProductService) publish(ctx context.Context, eventType string, p *model.Product) {
	if s.events == nil {
		return
	}
	event := model.CatalogEvent{
		Type:       eventType,
		ProductID:  p.ID,
		SKU:        p.SKU,
		OccurredAt: s.now().UTC(),
	}
	if eventType != model.EventProductDeleted && p.SKU != "" {
		event.Product = p
	}
	if err := s.events.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", eventType).Str("product_id", p.ID).Msg("failed to publish catalog event")
	}
}
