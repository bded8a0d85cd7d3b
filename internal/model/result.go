package model

// ResultRow is one row of the results table, keyed by column name. The
// results endpoint forwards rows untouched so the shape follows the table.
type ResultRow map[string]any
