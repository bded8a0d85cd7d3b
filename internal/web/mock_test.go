package web

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/kitcatalog/internal/model"
)

type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error { return m.scanFunc(dest...) }

func productRow(p model.Product) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		fillProduct(dest, p)
		return nil
	}}
}

type productRows struct {
	products []model.Product
	index    int
}

func (m *productRows) Next() bool { return m.index < len(m.products) }

func (m *productRows) Scan(dest ...any) error {
	fillProduct(dest, m.products[m.index])
	m.index++
	return nil
}

func (m *productRows) Err() error                                   { return nil }
func (m *productRows) Close()                                       {}
func (m *productRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *productRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *productRows) RawValues() [][]byte                          { return nil }
func (m *productRows) Values() ([]any, error)                       { return nil, nil }
func (m *productRows) Conn() *pgx.Conn                              { return nil }

func fillProduct(dest []any, p model.Product) {
	*(dest[0].(*string)) = p.ID
	*(dest[1].(*string)) = p.Name
	*(dest[2].(**string)) = p.Description
	*(dest[3].(*float64)) = p.BasePrice
	*(dest[4].(*string)) = p.SKU
	*(dest[5].(**string)) = p.Category
	*(dest[6].(**float64)) = p.Weight
	*(dest[7].(**string)) = p.Dimensions
	*(dest[8].(*int)) = p.StockQuantity
	*(dest[9].(**string)) = p.IntendedUse
	*(dest[10].(**string)) = p.TestType
	*(dest[11].(*[]string)) = p.SampleType
	*(dest[12].(**string)) = p.ResultsTime
	*(dest[13].(**string)) = p.StorageConditions
	*(dest[14].(*[]string)) = p.RegulatoryApprovals
	*(dest[15].(**string)) = p.KitContentsSummary
	*(dest[16].(**string)) = p.UserManualURL
	*(dest[17].(*[]string)) = p.WarningsAndPrecautions
	*(dest[18].(*bool)) = p.IsActive
	*(dest[19].(*time.Time)) = p.CreatedAt
	*(dest[20].(*time.Time)) = p.UpdatedAt
}

func testProduct(id, name, sku string) model.Product {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.Product{
		ID: id,
		ProductInput: model.ProductInput{
			Name:          name,
			SKU:           sku,
			BasePrice:     24.5,
			StockQuantity: 7,
			SampleType:    []string{"Blood", "Serum"},
			IsActive:      true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
