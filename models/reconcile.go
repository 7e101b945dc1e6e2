package models

import "time"

// Reconciliation entity kinds
const (
	ReconcileEntityProduct = "product"
	ReconcileEntityOrder   = "order"
	ReconcileEntityOffer   = "promo_offer"
)

// ReconcileDelta records one repaired mismatch between a stored derived
// value and its recomputed value.
type ReconcileDelta struct {
	Entity   string `json:"entity"` // product, order, promo_offer
	EntityID int64  `json:"entityId"`
	OldValue int64  `json:"oldValue"`
	NewValue int64  `json:"newValue"`
	Delta    int64  `json:"delta"`
}

// ReconcileReport is the result of one full reconciliation run. A run over
// a consistent database produces an empty Deltas slice.
type ReconcileReport struct {
	RunID      string           `json:"runId"`
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
	Deltas     []ReconcileDelta `json:"deltas"`
}
