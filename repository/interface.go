package repository

import (
	"context"
	"time"

	"vongtay-handmade/models"
)

// MaterialRepositoryInterface defines the contract for material catalog operations
type MaterialRepositoryInterface interface {
	Create(ctx context.Context, req *models.CreateMaterialRequest) (*models.Material, error)
	List(ctx context.Context) ([]models.Material, error)
	UpdateCost(ctx context.Context, materialID int64, newUnitCost int64) (*models.UpdateMaterialCostResponse, error)
	Delete(ctx context.Context, materialID int64) error
}

// ProductRepositoryInterface defines the contract for the product catalog
type ProductRepositoryInterface interface {
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

// BOMRepositoryInterface defines the contract for bill-of-materials operations
type BOMRepositoryInterface interface {
	SetBOM(ctx context.Context, productID int64, entries []models.SetBOMEntry) (*models.SetBOMResponse, error)
	GetBOM(ctx context.Context, productID int64) (*models.ProductBOMResponse, error)
}

// OrderRepositoryInterface defines the contract for order and order item operations
type OrderRepositoryInterface interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	AddItem(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderTotalResponse, error)
	RemoveItem(ctx context.Context, itemID int64) (*models.OrderTotalResponse, error)
	UpdateCharges(ctx context.Context, orderID, shippingCost, packagingCost int64) (*models.OrderTotalResponse, error)
	GetByID(ctx context.Context, orderID int64) (*models.OrderResponse, error)
	ListByDay(ctx context.Context, day time.Time) ([]models.Order, error)
}

// PromoRepositoryInterface defines the contract for promotional campaigns,
// offers and the capped purchase path
type PromoRepositoryInterface interface {
	CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest) (*models.PromoCampaign, error)
	SetCampaignStatus(ctx context.Context, campaignID int64, status string) error
	ReplaceOffers(ctx context.Context, campaignID int64, offers []models.ReplaceOfferEntry) (*models.ReplaceOffersResponse, error)
	ListOffers(ctx context.Context, campaignID int64) ([]models.PromoOffer, error)
	GetOffer(ctx context.Context, offerID int64) (*models.PromoOffer, string, error)
	Purchase(ctx context.Context, offerID int64, customerPhone string, quantity int64) (*models.PurchaseResult, error)
	Refund(ctx context.Context, purchaseID int64) (*models.PurchaseResult, error)
	GetCustomerPurchases(ctx context.Context, offerID int64, customerPhone string) ([]models.PromoPurchase, error)
}

// ReconcileRepositoryInterface defines the contract for the full-recompute
// reconciliation job
type ReconcileRepositoryInterface interface {
	ReconcileAll(ctx context.Context) (*models.ReconcileReport, error)
}
