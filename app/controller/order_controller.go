package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"vongtay-handmade/models"
	"vongtay-handmade/repository"
	"vongtay-handmade/service"
)

// OrderController handles HTTP requests for orders and order items
type OrderController struct {
	repository    repository.OrderRepositoryInterface
	labelService  service.LabelServiceInterface
	sheetsService service.SheetsServiceInterface
}

// NewOrderController creates a new OrderController
// sheetsService may be nil when Sheets export is not configured
func NewOrderController(
	repo repository.OrderRepositoryInterface,
	labelService service.LabelServiceInterface,
	sheetsService service.SheetsServiceInterface,
) *OrderController {
	return &OrderController{
		repository:    repo,
		labelService:  labelService,
		sheetsService: sheetsService,
	}
}

// Create handles POST /admin/orders
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Create: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Create: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	order, err := c.repository.Create(ctx, &req)
	if err != nil {
		log.Printf("❌ Create: Error creating order: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Get handles GET /admin/orders/:id
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r.URL.Path, "/admin/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	order, err := c.repository.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("❌ Get: Error fetching order: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AddItem handles POST /admin/orders/:id/items
// The added line snapshots the product's current prices; the response
// carries the recomputed order total.
func (c *OrderController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddItem: Received %s request to %s", r.Method, r.URL.Path)

	orderID, err := pathID(r.URL.Path, "/admin/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.AddOrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ AddItem: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.repository.AddItem(ctx, orderID, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("❌ AddItem: Error adding item: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ AddItem: order_id=%d, total_amount=%d", orderID, response.TotalAmount)
	writeJSON(w, http.StatusOK, response)
}

// RemoveItem handles DELETE /admin/orders/items/:itemId
func (c *OrderController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 RemoveItem: Received %s request to %s", r.Method, r.URL.Path)

	itemID, err := pathID(r.URL.Path, "/admin/orders/items/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.repository.RemoveItem(ctx, itemID)
	if err != nil {
		log.Printf("❌ RemoveItem: Error removing item: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ RemoveItem: item_id=%d, total_amount=%d", itemID, response.TotalAmount)
	writeJSON(w, http.StatusOK, response)
}

// UpdateCharges handles PUT /admin/orders/:id/charges
func (c *OrderController) UpdateCharges(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateCharges: Received %s request to %s", r.Method, r.URL.Path)

	orderID, err := pathID(r.URL.Path, "/admin/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.UpdateOrderChargesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateCharges: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.repository.UpdateCharges(ctx, orderID, req.ShippingCost, req.PackagingCost)
	if err != nil {
		log.Printf("❌ UpdateCharges: Error updating charges: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ UpdateCharges: order_id=%d, total_amount=%d", orderID, response.TotalAmount)
	writeJSON(w, http.StatusOK, response)
}

// Export handles POST /admin/orders/export?date=2026-08-30
// Appends one day's orders to the configured Google Sheet; date defaults
// to today.
func (c *OrderController) Export(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Export: Received %s request to %s", r.Method, r.URL.Path)

	if c.sheetsService == nil {
		log.Printf("❌ Export: Sheets export is not configured")
		http.Error(w, "Sheets export is not configured", http.StatusServiceUnavailable)
		return
	}

	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			log.Printf("❌ Export: Invalid date: %v", err)
			http.Error(w, fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", dateStr), http.StatusBadRequest)
			return
		}
		day = parsed
	}

	ctx := context.Background()
	orders, err := c.repository.ListByDay(ctx, day)
	if err != nil {
		log.Printf("❌ Export: Error listing orders: %v", err)
		writeRepositoryError(w, err)
		return
	}

	updatedRange, err := c.sheetsService.ExportOrders(ctx, orders)
	if err != nil {
		log.Printf("❌ Export: Sheets export failed: %v", err)
		http.Error(w, fmt.Sprintf("Failed to export orders: %v", err), http.StatusBadGateway)
		return
	}

	log.Printf("✅ Export: Exported %d orders for %s", len(orders), day.Format("2006-01-02"))
	writeJSON(w, http.StatusOK, models.OrderExportResponse{
		ExportedCount: len(orders),
		UpdatedRange:  updatedRange,
	})
}

// RenderLabel handles GET /admin/orders/:id/label/render
// Serves the label HTML page that GetLabel screenshots
func (c *OrderController) RenderLabel(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r.URL.Path, "/admin/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	html, err := c.labelService.RenderLabelHTML(ctx, orderID)
	if err != nil {
		log.Printf("❌ RenderLabel: Error rendering label: %v", err)
		writeRepositoryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// GetLabel handles GET /admin/orders/:id/label
// Returns the shipping label as a PNG; ?size=thumb returns a small preview
func (c *OrderController) GetLabel(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetLabel: Received %s request to %s", r.Method, r.URL.Path)

	orderID, err := pathID(r.URL.Path, "/admin/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	pngData, err := c.labelService.GeneratePNG(ctx, orderID)
	if err != nil {
		log.Printf("❌ GetLabel: Error generating label: %v", err)
		writeRepositoryError(w, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("size"), "thumb") {
		pngData, err = c.labelService.GenerateThumbnail(pngData)
		if err != nil {
			log.Printf("❌ GetLabel: Error generating thumbnail: %v", err)
			http.Error(w, fmt.Sprintf("Failed to generate thumbnail: %v", err), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(pngData)
}
