package models

import "time"

// Product represents a sellable product.
// CostPrice is derived from the BOM and owned by the cost propagation
// queries; SalePrice is set by the pricing side and read here only for
// order snapshots.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CostPrice   int64     `json:"costPrice"`
	SalePrice   int64     `json:"salePrice"`
	MarkupMilli *int64    `json:"markupMilli,omitempty"` // thousandths: 1500 = 1.5x
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateProductRequest represents the request body for creating a product.
// CostPrice is not accepted here; it is derived from the BOM.
// Example: {"name": "Vòng charm bạc", "salePrice": 185000}
type CreateProductRequest struct {
	Name        string `json:"name"`
	SalePrice   int64  `json:"salePrice"`
	MarkupMilli *int64 `json:"markupMilli,omitempty"`
}

// BOMEntry represents one material line of a product's bill of materials.
// QuantityMilli is a fixed-point quantity in thousandths (2500 = 2.5 units).
type BOMEntry struct {
	ProductID     int64  `json:"productId"`
	MaterialID    int64  `json:"materialId"`
	QuantityMilli int64  `json:"quantityMilli"`
	Unit          string `json:"unit"`
	// Material details (populated when joining with materials table)
	MaterialName     string `json:"materialName,omitempty"`
	MaterialUnitCost int64  `json:"materialUnitCost,omitempty"`
}

// SetBOMRequest represents the request body for replacing a product's BOM
// Example: {"entries": [{"materialId": 1, "quantityMilli": 3000, "unit": "pcs"}]}
type SetBOMRequest struct {
	Entries []SetBOMEntry `json:"entries"`
}

// SetBOMEntry is one entry of a SetBOMRequest
type SetBOMEntry struct {
	MaterialID    int64  `json:"materialId"`
	QuantityMilli int64  `json:"quantityMilli"`
	Unit          string `json:"unit,omitempty"`
}

// SetBOMResponse returns the recomputed cost after a BOM replacement
// Example response: {"productId": 7, "costPrice": 45000, "entryCount": 2}
type SetBOMResponse struct {
	ProductID  int64 `json:"productId"`
	CostPrice  int64 `json:"costPrice"`
	EntryCount int   `json:"entryCount"`
}

// ProductBOMResponse represents a product with its full BOM
type ProductBOMResponse struct {
	Product Product    `json:"product"`
	Entries []BOMEntry `json:"entries"`
}
