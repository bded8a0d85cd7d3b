package model

// ImportRowError reports a spreadsheet row that could not be imported.
// Row numbers are 1-based and count the header row.
type ImportRowError struct {
	Row   int    `json:"row"`
	SKU   string `json:"sku,omitempty"`
	Error string `json:"error"`
}

// ImportResult summarizes a bulk product import.
type ImportResult struct {
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}
