package form

// Field names a form input. Values match the posted form keys and the JSON
// field names of model.ProductInput.
type Field string

const (
	FieldName                   Field = "name"
	FieldDescription            Field = "description"
	FieldBasePrice              Field = "base_price"
	FieldSKU                    Field = "sku"
	FieldCategory               Field = "category"
	FieldWeight                 Field = "weight"
	FieldDimensions             Field = "dimensions"
	FieldStockQuantity          Field = "stock_quantity"
	FieldIntendedUse            Field = "intended_use"
	FieldTestType               Field = "test_type"
	FieldSampleType             Field = "sample_type"
	FieldResultsTime            Field = "results_time"
	FieldStorageConditions      Field = "storage_conditions"
	FieldRegulatoryApprovals    Field = "regulatory_approvals"
	FieldKitContentsSummary     Field = "kit_contents_summary"
	FieldUserManualURL          Field = "user_manual_url"
	FieldWarningsAndPrecautions Field = "warnings_and_precautions"
	FieldIsActive               Field = "is_active"
)

// Kind selects how a field is rendered and parsed.
type Kind int

const (
	KindText Kind = iota
	KindTextarea
	KindNumber
	KindURL
	KindList
	KindCheckbox
)

// Spec describes one input of the product form.
type Spec struct {
	Field       Field
	ID          string
	Label       string
	Kind        Kind
	Required    bool
	Placeholder string
	Step        string
	Rows        int
}

// Specs lists the form inputs in display order.
var Specs = []Spec{
	{Field: FieldName, ID: "productName", Label: "Product Name", Kind: KindText, Required: true},
	{Field: FieldDescription, ID: "productDescription", Label: "Description", Kind: KindTextarea, Rows: 3},
	{Field: FieldBasePrice, ID: "basePrice", Label: "Base Price", Kind: KindNumber, Required: true, Step: "0.01"},
	{Field: FieldSKU, ID: "sku", Label: "SKU", Kind: KindText, Required: true},
	{Field: FieldCategory, ID: "category", Label: "Category", Kind: KindText},
	{Field: FieldWeight, ID: "weight", Label: "Weight", Kind: KindNumber, Step: "0.01"},
	{Field: FieldDimensions, ID: "dimensions", Label: "Dimensions", Kind: KindText, Placeholder: "e.g., 10x5x2 cm"},
	{Field: FieldStockQuantity, ID: "stockQuantity", Label: "Stock Quantity", Kind: KindNumber, Required: true},
	{Field: FieldIntendedUse, ID: "intendedUse", Label: "Intended Use", Kind: KindText},
	{Field: FieldTestType, ID: "testType", Label: "Test Type", Kind: KindText},
	{Field: FieldSampleType, ID: "sampleType", Label: "Sample Type(s)", Kind: KindList, Rows: 2, Placeholder: "Comma-separate multiple sample types"},
	{Field: FieldResultsTime, ID: "resultsTime", Label: "Results Time", Kind: KindText, Placeholder: "e.g., 24-48 hours"},
	{Field: FieldStorageConditions, ID: "storageConditions", Label: "Storage Conditions", Kind: KindText, Placeholder: "e.g., Refrigerate at 4°C"},
	{Field: FieldRegulatoryApprovals, ID: "regulatoryApprovals", Label: "Regulatory Approvals", Kind: KindList, Rows: 2, Placeholder: "Comma-separate approvals"},
	{Field: FieldKitContentsSummary, ID: "kitContents", Label: "Kit Contents Summary", Kind: KindTextarea, Rows: 3},
	{Field: FieldUserManualURL, ID: "userManualUrl", Label: "User Manual URL", Kind: KindURL},
	{Field: FieldWarningsAndPrecautions, ID: "warningsAndPrecautions", Label: "Warnings & Precautions", Kind: KindList, Rows: 2, Placeholder: "Comma-separate warnings"},
	{Field: FieldIsActive, ID: "isActive", Label: "Is Active", Kind: KindCheckbox},
}

// ListFields are the fields edited as comma-separated text.
var ListFields = []Field{FieldSampleType, FieldRegulatoryApprovals, FieldWarningsAndPrecautions}
