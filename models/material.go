package models

import "time"

// Material represents a raw material in the catalog (beads, string, charms).
// UnitCost is in integer minor units (VND).
type Material struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UnitCost  int64     `json:"unitCost"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateMaterialRequest represents the request body for creating a material
// Example: {"name": "silver_bead", "unitCost": 15000}
type CreateMaterialRequest struct {
	Name     string `json:"name"`
	UnitCost int64  `json:"unitCost"`
}

// UpdateMaterialCostRequest represents the request body for updating a material's unit cost
// Example: {"unitCost": 20000}
type UpdateMaterialCostRequest struct {
	UnitCost int64 `json:"unitCost"`
}

// UpdateMaterialCostResponse reports how far the cost change cascaded
// Example response: {"material": {...}, "productsRecomputed": 3}
type UpdateMaterialCostResponse struct {
	Material           Material `json:"material"`
	ProductsRecomputed int64    `json:"productsRecomputed"`
}
