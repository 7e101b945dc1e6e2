package models

import "time"

// Campaign status values
const (
	CampaignStatusDraft  = "draft"
	CampaignStatusActive = "active"
	CampaignStatusEnded  = "ended"
)

// PromoCampaign represents a time-boxed promotional campaign. Status and
// the [StartTime, EndTime) window are independent fields; a purchase
// requires both status == active and now inside the window.
type PromoCampaign struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// PromoOffer represents one capped, discounted product listing inside a
// campaign. SoldCount is derived from the purchase ledger and written only
// by the guarded purchase/refund updates.
type PromoOffer struct {
	ID             int64 `json:"id"`
	CampaignID     int64 `json:"campaignId"`
	ProductID      int64 `json:"productId"`
	PromoPrice     int64 `json:"promoPrice"`
	StockLimit     int64 `json:"stockLimit"`
	MaxPerCustomer int64 `json:"maxPerCustomer"`
	SoldCount      int64 `json:"soldCount"`
	// Convenience field for storefront listings
	Remaining int64 `json:"remaining"`
}

// PromoPurchase is one row of the append-only purchase ledger. Refunds are
// negative-quantity rows, never deletions.
type PromoPurchase struct {
	ID            int64     `json:"id"`
	OfferID       int64     `json:"offerId"`
	CustomerPhone string    `json:"customerPhone"`
	Quantity      int64     `json:"quantity"`
	PurchasedAt   time.Time `json:"purchasedAt"`
}

// PurchaseStatus is the typed outcome of a promo purchase attempt. The
// three failure reasons imply different storefront guidance and must never
// collapse into a generic error.
type PurchaseStatus string

const (
	PurchaseOK           PurchaseStatus = "ok"
	PurchaseSoldOut      PurchaseStatus = "sold_out"
	PurchaseLimitReached PurchaseStatus = "limit_reached"
	PurchaseNotActive    PurchaseStatus = "not_active"
)

// PurchaseRequest represents the request body for a promo purchase
// Example: {"customerPhone": "+84901234567", "quantity": 1}
type PurchaseRequest struct {
	CustomerPhone string `json:"customerPhone"`
	Quantity      int64  `json:"quantity"`
}

// PurchaseResult is returned for every purchase attempt, success or not
// Example response: {"status": "sold_out", "soldCount": 50}
type PurchaseResult struct {
	Status    PurchaseStatus `json:"status"`
	SoldCount int64          `json:"soldCount"`
}

// CreateCampaignRequest represents the request body for creating a campaign
// Example: {"name": "Sale 9.9", "startTime": "2025-09-09T00:00:00+07:00", "endTime": "2025-09-10T00:00:00+07:00"}
type CreateCampaignRequest struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// ReplaceOffersRequest represents the request body for replacing a campaign's offers
// Example: {"offers": [{"productId": 7, "promoPrice": 99000, "stockLimit": 50, "maxPerCustomer": 2}]}
type ReplaceOffersRequest struct {
	Offers []ReplaceOfferEntry `json:"offers"`
}

// ReplaceOfferEntry is one entry of a ReplaceOffersRequest
type ReplaceOfferEntry struct {
	ProductID      int64 `json:"productId"`
	PromoPrice     int64 `json:"promoPrice"`
	StockLimit     int64 `json:"stockLimit"`
	MaxPerCustomer int64 `json:"maxPerCustomer"`
}

// ReplaceOffersResponse reports the all-or-nothing offer replacement
// Example response: {"removedCount": 3, "addedCount": 5}
type ReplaceOffersResponse struct {
	RemovedCount int64 `json:"removedCount"`
	AddedCount   int64 `json:"addedCount"`
}
