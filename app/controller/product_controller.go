package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"vongtay-handmade/models"
	"vongtay-handmade/repository"
)

// ProductController handles HTTP requests for products and their BOMs
type ProductController struct {
	productRepo repository.ProductRepositoryInterface
	bomRepo     repository.BOMRepositoryInterface
}

// NewProductController creates a new ProductController
func NewProductController(productRepo repository.ProductRepositoryInterface, bomRepo repository.BOMRepositoryInterface) *ProductController {
	return &ProductController{
		productRepo: productRepo,
		bomRepo:     bomRepo,
	}
}

// Create handles POST /admin/products
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Create: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Create: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	product, err := c.productRepo.Create(ctx, &req)
	if err != nil {
		log.Printf("❌ Create: Error creating product: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// List handles GET /admin/products
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	products, err := c.productRepo.List(ctx)
	if err != nil {
		log.Printf("❌ List: Error fetching products: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// SetBOM handles PUT /admin/products/:id/bom
// Replaces the product's entire bill of materials and returns the
// recomputed cost_price.
func (c *ProductController) SetBOM(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SetBOM: Received %s request to %s", r.Method, r.URL.Path)

	productID, err := pathID(r.URL.Path, "/admin/products/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.SetBOMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ SetBOM: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.bomRepo.SetBOM(ctx, productID, req.Entries)
	if err != nil {
		log.Printf("❌ SetBOM: Error replacing BOM: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ SetBOM: product_id=%d, cost_price=%d", productID, response.CostPrice)
	writeJSON(w, http.StatusOK, response)
}

// GetBOM handles GET /admin/products/:id/bom
func (c *ProductController) GetBOM(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r.URL.Path, "/admin/products/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.bomRepo.GetBOM(ctx, productID)
	if err != nil {
		log.Printf("❌ GetBOM: Error fetching BOM: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
