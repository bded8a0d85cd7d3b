package handler

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/kitcatalog/internal/model"
)

// handlerMockDB implements core.DB for handler tests.
type handlerMockDB struct {
	mock.Mock
}

func (m *handlerMockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *handlerMockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *handlerMockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error { return m.scanFunc(dest...) }

func noRow() *mockRow {
	return &mockRow{scanFunc: func(...any) error { return pgx.ErrNoRows }}
}

func productRow(p model.Product) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		fillProduct(dest, p)
		return nil
	}}
}

// mockRows yields one product per row.
type mockRows struct {
	products []model.Product
	index    int
}

func (m *mockRows) Next() bool { return m.index < len(m.products) }

func (m *mockRows) Scan(dest ...any) error {
	fillProduct(dest, m.products[m.index])
	m.index++
	return nil
}

func (m *mockRows) Err() error                                   { return nil }
func (m *mockRows) Close()                                       {}
func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// mockMapRows serves rows read back with pgx.RowToMap.
type mockMapRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	index  int
}

func newMockMapRows(columns []string, values ...[]any) *mockMapRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, c := range columns {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return &mockMapRows{fields: fields, values: values}
}

func (m *mockMapRows) Next() bool {
	if m.index >= len(m.values) {
		return false
	}
	m.index++
	return true
}

func (m *mockMapRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(m)
		}
	}
	return errors.New("mockMapRows only supports pgx.RowScanner destinations")
}

func (m *mockMapRows) Values() ([]any, error)                       { return m.values[m.index-1], nil }
func (m *mockMapRows) FieldDescriptions() []pgconn.FieldDescription { return m.fields }
func (m *mockMapRows) Err() error                                   { return nil }
func (m *mockMapRows) Close()                                       {}
func (m *mockMapRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockMapRows) RawValues() [][]byte                          { return nil }
func (m *mockMapRows) Conn() *pgx.Conn                              { return nil }

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

func sampleProduct(id, name, sku string) model.Product {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.Product{
		ID: id,
		ProductInput: model.ProductInput{
			Name:          name,
			SKU:           sku,
			BasePrice:     49.9,
			StockQuantity: 10,
			SampleType:    []string{"Blood"},
			IsActive:      true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
