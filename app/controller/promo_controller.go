package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"vongtay-handmade/models"
	"vongtay-handmade/repository"
	"vongtay-handmade/service"
)

// PromoController handles HTTP requests for campaigns, offers and purchases
type PromoController struct {
	repository    repository.PromoRepositoryInterface
	notifyService service.NotifyServiceInterface
}

// NewPromoController creates a new PromoController
// notifyService may be nil when Telegram is not configured
func NewPromoController(repo repository.PromoRepositoryInterface, notifyService service.NotifyServiceInterface) *PromoController {
	return &PromoController{
		repository:    repo,
		notifyService: notifyService,
	}
}

// CreateCampaign handles POST /admin/campaigns
func (c *PromoController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateCampaign: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ CreateCampaign: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	campaign, err := c.repository.CreateCampaign(ctx, &req)
	if err != nil {
		log.Printf("❌ CreateCampaign: Error creating campaign: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

// SetStatus handles PUT /admin/campaigns/:id/status
func (c *PromoController) SetStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SetStatus: Received %s request to %s", r.Method, r.URL.Path)

	campaignID, err := pathID(r.URL.Path, "/admin/campaigns/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ SetStatus: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	if err := c.repository.SetCampaignStatus(ctx, campaignID, req.Status); err != nil {
		log.Printf("❌ SetStatus: Error updating status: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"campaignId": campaignID, "status": req.Status})
}

// ReplaceOffers handles PUT /admin/campaigns/:id/offers
func (c *PromoController) ReplaceOffers(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ReplaceOffers: Received %s request to %s", r.Method, r.URL.Path)

	campaignID, err := pathID(r.URL.Path, "/admin/campaigns/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.ReplaceOffersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ ReplaceOffers: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.repository.ReplaceOffers(ctx, campaignID, req.Offers)
	if err != nil {
		log.Printf("❌ ReplaceOffers: Error replacing offers: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ ReplaceOffers: campaign_id=%d, removed=%d, added=%d", campaignID, response.RemovedCount, response.AddedCount)
	writeJSON(w, http.StatusOK, response)
}

// ListOffers handles GET /admin/campaigns/:id/offers
func (c *PromoController) ListOffers(w http.ResponseWriter, r *http.Request) {
	campaignID, err := pathID(r.URL.Path, "/admin/campaigns/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	offers, err := c.repository.ListOffers(ctx, campaignID)
	if err != nil {
		log.Printf("❌ ListOffers: Error fetching offers: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

// Purchase handles POST /offers/:id/purchase
// Every attempt gets a 200 with a typed status; the storefront renders
// different guidance for sold_out, limit_reached and not_active.
func (c *PromoController) Purchase(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Purchase: Received %s request to %s", r.Method, r.URL.Path)

	offerID, err := pathID(r.URL.Path, "/offers/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Purchase: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	result, err := c.repository.Purchase(ctx, offerID, strings.TrimSpace(req.CustomerPhone), req.Quantity)
	if err != nil {
		log.Printf("❌ Purchase: Error processing purchase: %v", err)
		writeRepositoryError(w, err)
		return
	}

	c.notifyIfSoldOut(ctx, offerID, result)

	log.Printf("✅ Purchase: offer_id=%d, status=%s", offerID, result.Status)
	writeJSON(w, http.StatusOK, result)
}

// Refund handles POST /admin/purchases/:id/refund
func (c *PromoController) Refund(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Refund: Received %s request to %s", r.Method, r.URL.Path)

	purchaseID, err := pathID(r.URL.Path, "/admin/purchases/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	result, err := c.repository.Refund(ctx, purchaseID)
	if err != nil {
		log.Printf("❌ Refund: Error processing refund: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ Refund: purchase_id=%d, sold_count=%d", purchaseID, result.SoldCount)
	writeJSON(w, http.StatusOK, result)
}

// GetCustomerPurchases handles GET /offers/:id/purchases?phone=...
func (c *PromoController) GetCustomerPurchases(w http.ResponseWriter, r *http.Request) {
	offerID, err := pathID(r.URL.Path, "/offers/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		http.Error(w, "phone query parameter is required", http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	purchases, err := c.repository.GetCustomerPurchases(ctx, offerID, phone)
	if err != nil {
		log.Printf("❌ GetCustomerPurchases: Error fetching purchases: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, purchases)
}

// notifyIfSoldOut pings the owner when a successful purchase exhausts the
// offer. Best-effort: notification failures are logged, never surfaced.
func (c *PromoController) notifyIfSoldOut(ctx context.Context, offerID int64, result *models.PurchaseResult) {
	if c.notifyService == nil || result.Status != models.PurchaseOK {
		return
	}

	offer, productName, err := c.repository.GetOffer(ctx, offerID)
	if err != nil {
		log.Printf("⚠️ Purchase: Could not load offer for sold-out check: %v", err)
		return
	}
	if offer.SoldCount < offer.StockLimit {
		return
	}

	if err := c.notifyService.NotifySoldOut(offer, productName); err != nil {
		log.Printf("⚠️ Purchase: Sold-out notification failed: %v", err)
	}
}
