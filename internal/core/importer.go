package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/kitcatalog/internal/model"
	"github.com/edvin/kitcatalog/internal/textlist"
)

const importConcurrency = 4

// headerAliases maps normalized spreadsheet headers to product fields.
var headerAliases = map[string]string{
	"name":                     "name",
	"product_name":             "name",
	"description":              "description",
	"base_price":               "base_price",
	"price":                    "base_price",
	"sku":                      "sku",
	"category":                 "category",
	"weight":                   "weight",
	"dimensions":               "dimensions",
	"stock_quantity":           "stock_quantity",
	"stock":                    "stock_quantity",
	"intended_use":             "intended_use",
	"test_type":                "test_type",
	"sample_type":              "sample_type",
	"sample_types":             "sample_type",
	"sample_type(s)":           "sample_type",
	"results_time":             "results_time",
	"storage_conditions":       "storage_conditions",
	"regulatory_approvals":     "regulatory_approvals",
	"kit_contents_summary":     "kit_contents_summary",
	"kit_contents":             "kit_contents_summary",
	"user_manual_url":          "user_manual_url",
	"manual_url":               "user_manual_url",
	"warnings_and_precautions": "warnings_and_precautions",
	"warnings_&_precautions":   "warnings_and_precautions",
	"warnings":                 "warnings_and_precautions",
	"is_active":                "is_active",
	"active":                   "is_active",
}

type ImportService struct {
	products *ProductService
	validate *validator.Validate
}

func NewImportService(products *ProductService) *ImportService {
	return &ImportService{products: products, validate: validator.New()}
}

type importRow struct {
	row   int
	input model.ProductInput
}

// ImportXLSX reads products from the first sheet of an xlsx workbook and
// creates them. The first row must be a header row naming the columns; list
// columns use the same comma-separated text as the admin form. Rows that fail
// to parse, validate or insert are reported in the result, not as an error.
func (s *ImportService) ImportXLSX(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &model.ImportResult{Errors: []model.ImportRowError{}}
	var pending []importRow
	seen := make(map[string]int)

	for i, cells := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(cells) {
			continue
		}
		result.Total++

		in, err := parseImportRow(columns, cells)
		if err == nil {
			err = s.validate.Struct(in)
		}
		if err != nil {
			result.Errors = append(result.Errors, model.ImportRowError{Row: rowNum, SKU: in.SKU, Error: err.Error()})
			continue
		}
		if first, dup := seen[in.SKU]; dup {
			result.Errors = append(result.Errors, model.ImportRowError{
				Row: rowNum, SKU: in.SKU, Error: fmt.Sprintf("duplicate SKU, first seen on row %d", first),
			})
			continue
		}
		seen[in.SKU] = rowNum
		pending = append(pending, importRow{row: rowNum, input: in})
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for _, pr := range pending {
		g.Go(func() error {
			_, err := s.products.Create(gctx, pr.input)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				msg := err.Error()
				if errors.Is(err, ErrDuplicateSKU) {
					msg = ErrDuplicateSKU.Error()
				}
				result.Errors = append(result.Errors, model.ImportRowError{Row: pr.row, SKU: pr.input.SKU, Error: msg})
				return nil
			}
			result.Imported++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Row < result.Errors[j].Row })
	result.Failed = len(result.Errors)
	return result, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// mapHeader returns column index -> product field.
func mapHeader(header []string) (map[int]string, error) {
	columns := make(map[int]string)
	found := make(map[string]bool)
	for i, h := range header {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			columns[i] = field
			found[field] = true
		}
	}

	var missing []string
	for _, required := range []string{"name", "sku"} {
		if !found[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseImportRow(columns map[int]string, cells []string) (model.ProductInput, error) {
	in := model.ProductInput{IsActive: true}

	for idx, field := range columns {
		if idx >= len(cells) {
			continue
		}
		raw := strings.TrimSpace(cells[idx])

		switch field {
		case "name":
			in.Name = raw
		case "sku":
			in.SKU = raw
		case "description":
			in.Description = optionalString(raw)
		case "category":
			in.Category = optionalString(raw)
		case "dimensions":
			in.Dimensions = optionalString(raw)
		case "intended_use":
			in.IntendedUse = optionalString(raw)
		case "test_type":
			in.TestType = optionalString(raw)
		case "results_time":
			in.ResultsTime = optionalString(raw)
		case "storage_conditions":
			in.StorageConditions = optionalString(raw)
		case "kit_contents_summary":
			in.KitContentsSummary = optionalString(raw)
		case "user_manual_url":
			in.UserManualURL = optionalString(raw)
		case "sample_type":
			in.SampleType = textlist.Parse(raw)
		case "regulatory_approvals":
			in.RegulatoryApprovals = textlist.Parse(raw)
		case "warnings_and_precautions":
			in.WarningsAndPrecautions = textlist.Parse(raw)
		case "base_price":
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return in, fmt.Errorf("invalid base_price %q", raw)
			}
			in.BasePrice = v
		case "weight":
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return in, fmt.Errorf("invalid weight %q", raw)
			}
			in.Weight = &v
		case "stock_quantity":
			if raw == "" {
				continue
			}
			v, err := strconv.Atoi(raw)
			if err != nil {
				return in, fmt.Errorf("invalid stock_quantity %q", raw)
			}
			in.StockQuantity = v
		case "is_active":
			if raw == "" {
				continue
			}
			switch strings.ToLower(raw) {
			case "true", "yes", "y", "1":
				in.IsActive = true
			case "false", "no", "n", "0":
				in.IsActive = false
			default:
				return in, fmt.Errorf("invalid is_active %q", raw)
			}
		}
	}

	return in, nil
}
