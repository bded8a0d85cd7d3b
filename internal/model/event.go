package model

import "time"

// Catalog event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// CatalogEvent describes a change to the product catalog.
type CatalogEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	SKU        string    `json:"sku,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Product    *Product  `json:"product,omitempty"`
}
