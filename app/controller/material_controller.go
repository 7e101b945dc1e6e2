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

// MaterialController handles HTTP requests for the materials catalog
type MaterialController struct {
	repository repository.MaterialRepositoryInterface
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(repo repository.MaterialRepositoryInterface) *MaterialController {
	return &MaterialController{
		repository: repo,
	}
}

// Create handles POST /admin/materials
func (c *MaterialController) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Create: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Create: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	material, err := c.repository.Create(ctx, &req)
	if err != nil {
		log.Printf("❌ Create: Error creating material: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, material)
}

// List handles GET /admin/materials
func (c *MaterialController) List(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()
	materials, err := c.repository.List(ctx)
	if err != nil {
		log.Printf("❌ List: Error fetching materials: %v", err)
		writeRepositoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, materials)
}

// UpdateCost handles PUT /admin/materials/:id/cost
// Updating a unit cost also recomputes cost_price on every product whose
// BOM uses this material; the response reports how many were touched.
func (c *MaterialController) UpdateCost(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateCost: Received %s request to %s", r.Method, r.URL.Path)

	materialID, err := pathID(r.URL.Path, "/admin/materials/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req models.UpdateMaterialCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateCost: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	response, err := c.repository.UpdateCost(ctx, materialID, req.UnitCost)
	if err != nil {
		log.Printf("❌ UpdateCost: Error updating cost: %v", err)
		writeRepositoryError(w, err)
		return
	}

	log.Printf("✅ UpdateCost: material_id=%d, products_recomputed=%d", materialID, response.ProductsRecomputed)
	writeJSON(w, http.StatusOK, response)
}

// Delete handles DELETE /admin/materials/:id
func (c *MaterialController) Delete(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Delete: Received %s request to %s", r.Method, r.URL.Path)

	materialID, err := pathID(r.URL.Path, "/admin/materials/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	if err := c.repository.Delete(ctx, materialID); err != nil {
		log.Printf("❌ Delete: Error deleting material: %v", err)
		writeRepositoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
