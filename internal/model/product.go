package model

import "time"

// ProductInput is the editable shape of a test-kit product. The admin form
// and the JSON API both produce it.
type ProductInput struct {
	Name                   string   `json:"name" db:"name" validate:"required"`
	Description            *string  `json:"description" db:"description"`
	BasePrice              float64  `json:"base_price" db:"base_price" validate:"gte=0"`
	SKU                    string   `json:"sku" db:"sku" validate:"required"`
	Category               *string  `json:"category" db:"category"`
	Weight                 *float64 `json:"weight" db:"weight" validate:"omitempty,gt=0"`
	Dimensions             *string  `json:"dimensions" db:"dimensions"`
	StockQuantity          int      `json:"stock_quantity" db:"stock_quantity" validate:"gte=0"`
	IntendedUse            *string  `json:"intended_use" db:"intended_use"`
	TestType               *string  `json:"test_type" db:"test_type"`
	SampleType             []string `json:"sample_type" db:"sample_type"`
	ResultsTime            *string  `json:"results_time" db:"results_time"`
	StorageConditions      *string  `json:"storage_conditions" db:"storage_conditions"`
	RegulatoryApprovals    []string `json:"regulatory_approvals" db:"regulatory_approvals"`
	KitContentsSummary     *string  `json:"kit_contents_summary" db:"kit_contents_summary"`
	UserManualURL          *string  `json:"user_manual_url" db:"user_manual_url" validate:"omitempty,url"`
	WarningsAndPrecautions []string `json:"warnings_and_precautions" db:"warnings_and_precautions"`
	IsActive               bool     `json:"is_active" db:"is_active"`
}

// Product is a persisted catalog entry.
type Product struct {
	ID string `json:"id" db:"id"`
	ProductInput
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Active   *bool
	Category string
}
