package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"vongtay-handmade/models"
)

// costFormula computes a product's cost_price from its current BOM:
// quantities are fixed-point thousandths, unit costs are integer minor
// units, and the half-up rounding is applied once, after the sum.
const costFormula = `(SUM(be.quantity_milli * m.unit_cost) + 500) / 1000`

// MaterialRepository handles database operations for the materials catalog
type MaterialRepository struct {
	db *sql.DB
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(conn *sql.DB) *MaterialRepository {
	return &MaterialRepository{db: conn}
}

// Ensure MaterialRepository implements MaterialRepositoryInterface
var _ MaterialRepositoryInterface = (*MaterialRepository)(nil)

// Create creates a new material
func (r *MaterialRepository) Create(ctx context.Context, req *models.CreateMaterialRequest) (*models.Material, error) {
	log.Printf("🧵 Create: Creating material name=%s, unit_cost=%d", req.Name, req.UnitCost)

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if req.UnitCost < 0 {
		return nil, &ValidationError{Field: "unitCost", Reason: "cannot be negative"}
	}

	query := `
		INSERT INTO materials (name, unit_cost)
		VALUES ($1, $2)
		RETURNING id, name, unit_cost, created_at, updated_at
	`

	var material models.Material
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(req.Name), req.UnitCost).Scan(
		&material.ID,
		&material.Name,
		&material.UnitCost,
		&material.CreatedAt,
		&material.UpdatedAt,
	)
	if err != nil {
		log.Printf("❌ Create: Error creating material: %v", err)
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	log.Printf("✅ Create: Successfully created material id=%d", material.ID)
	return &material, nil
}

// List retrieves all materials ordered by name
func (r *MaterialRepository) List(ctx context.Context) ([]models.Material, error) {
	query := `
		SELECT id, name, unit_cost, created_at, updated_at
		FROM materials
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ List: Error fetching materials: %v", err)
		return nil, fmt.Errorf("failed to fetch materials: %w", err)
	}
	defer rows.Close()

	var materials []models.Material
	for rows.Next() {
		var m models.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.UnitCost, &m.CreatedAt, &m.UpdatedAt); err != nil {
			log.Printf("❌ List: Error scanning material: %v", err)
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ List: Error iterating materials: %v", err)
		return nil, fmt.Errorf("failed to iterate materials: %w", err)
	}

	return materials, nil
}

// UpdateCost updates a material's unit cost and recomputes cost_price for
// every product whose BOM references it. The cascade is one set-oriented
// statement inside the same transaction as the material update, so no
// reader ever observes a half-updated catalog.
func (r *MaterialRepository) UpdateCost(ctx context.Context, materialID int64, newUnitCost int64) (*models.UpdateMaterialCostResponse, error) {
	log.Printf("🧵 UpdateCost: material_id=%d, new_unit_cost=%d", materialID, newUnitCost)

	if newUnitCost < 0 {
		return nil, &ValidationError{Field: "unitCost", Reason: "cannot be negative"}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ UpdateCost: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Update the material itself
	queryUpdate := `
		UPDATE materials
		SET unit_cost = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, unit_cost, created_at, updated_at
	`

	var material models.Material
	err = tx.QueryRowContext(ctx, queryUpdate, newUnitCost, materialID).Scan(
		&material.ID,
		&material.Name,
		&material.UnitCost,
		&material.CreatedAt,
		&material.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ UpdateCost: Material not found: id=%d", materialID)
			return nil, ErrNotFound
		}
		log.Printf("❌ UpdateCost: Error updating material: %v", err)
		return nil, fmt.Errorf("failed to update material: %w", err)
	}

	// Cascade: full resummation for every product referencing this
	// material, in one wide write. Products without this material in
	// their BOM are untouched.
	queryCascade := `
		UPDATE products p
		SET cost_price = recomputed.new_cost
		FROM (
			SELECT be.product_id, ` + costFormula + ` AS new_cost
			FROM bom_entries be
			JOIN materials m ON m.id = be.material_id
			WHERE be.product_id IN (
				SELECT product_id FROM bom_entries WHERE material_id = $1
			)
			GROUP BY be.product_id
		) recomputed
		WHERE p.id = recomputed.product_id
	`

	result, err := tx.ExecContext(ctx, queryCascade, materialID)
	if err != nil {
		log.Printf("❌ UpdateCost: Error cascading cost recompute: %v", err)
		return nil, fmt.Errorf("failed to recompute product costs: %w", err)
	}

	recomputed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ UpdateCost: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ UpdateCost: Updated material id=%d, recomputed %d products", materialID, recomputed)
	return &models.UpdateMaterialCostResponse{
		Material:           material,
		ProductsRecomputed: recomputed,
	}, nil
}

// Delete removes a material. A material still referenced by any BOM cannot
// be deleted; rejecting here is what keeps the cost formula total — a BOM
// entry can never point at a missing material.
func (r *MaterialRepository) Delete(ctx context.Context, materialID int64) error {
	log.Printf("🧵 Delete: material_id=%d", materialID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var refCount int64
	queryRefs := `SELECT COUNT(*) FROM bom_entries WHERE material_id = $1`
	if err := tx.QueryRowContext(ctx, queryRefs, materialID).Scan(&refCount); err != nil {
		log.Printf("❌ Delete: Error counting BOM references: %v", err)
		return fmt.Errorf("failed to count BOM references: %w", err)
	}

	if refCount > 0 {
		log.Printf("❌ Delete: Material %d is referenced by %d BOM entries", materialID, refCount)
		return &ValidationError{Field: "materialId", Reason: fmt.Sprintf("still referenced by %d BOM entries", refCount)}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, materialID)
	if err != nil {
		log.Printf("❌ Delete: Error deleting material: %v", err)
		return fmt.Errorf("failed to delete material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete row count: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Delete: Successfully deleted material id=%d", materialID)
	return nil
}
