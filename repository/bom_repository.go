package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"vongtay-handmade/models"
)

// BOMRepository handles database operations for bills of materials
type BOMRepository struct {
	db *sql.DB
}

// NewBOMRepository creates a new BOMRepository
func NewBOMRepository(conn *sql.DB) *BOMRepository {
	return &BOMRepository{db: conn}
}

// Ensure BOMRepository implements BOMRepositoryInterface
var _ BOMRepositoryInterface = (*BOMRepository)(nil)

// SetBOM replaces a product's entire bill of materials and recomputes its
// cost_price in the same transaction. A recompute failure rolls back the
// BOM edit; the two are one atomic unit. An empty entry list is valid and
// yields cost_price = 0.
func (r *BOMRepository) SetBOM(ctx context.Context, productID int64, entries []models.SetBOMEntry) (*models.SetBOMResponse, error) {
	log.Printf("📋 SetBOM: product_id=%d, entries=%d", productID, len(entries))

	// Validate entries before any write
	seen := make(map[int64]bool)
	for _, e := range entries {
		if e.QuantityMilli <= 0 {
			return nil, &ValidationError{Field: "quantityMilli", Reason: "must be greater than 0"}
		}
		if seen[e.MaterialID] {
			return nil, &ValidationError{Field: "materialId", Reason: fmt.Sprintf("duplicate material %d", e.MaterialID)}
		}
		seen[e.MaterialID] = true
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ SetBOM: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the product row so concurrent BOM edits serialize
	var lockedID int64
	queryProduct := `SELECT id FROM products WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, queryProduct, productID).Scan(&lockedID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ SetBOM: Product not found: id=%d", productID)
			return nil, ErrNotFound
		}
		log.Printf("❌ SetBOM: Error fetching product: %v", err)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	// Hard-rejection policy: every referenced material must exist. A BOM
	// that silently contributed zero for missing materials would
	// understate cost_price.
	if len(entries) > 0 {
		placeholders := make([]string, len(entries))
		args := make([]interface{}, len(entries))
		for i, e := range entries {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = e.MaterialID
		}

		var found int64
		queryMaterials := fmt.Sprintf(`SELECT COUNT(*) FROM materials WHERE id IN (%s)`, strings.Join(placeholders, ", "))
		if err := tx.QueryRowContext(ctx, queryMaterials, args...).Scan(&found); err != nil {
			log.Printf("❌ SetBOM: Error checking materials: %v", err)
			return nil, fmt.Errorf("failed to check materials: %w", err)
		}
		if found != int64(len(entries)) {
			log.Printf("❌ SetBOM: Unknown material in entries (found %d of %d)", found, len(entries))
			return nil, &ValidationError{Field: "materialId", Reason: "references a material that does not exist"}
		}
	}

	// Replace the BOM: delete the old set, insert the new one
	if _, err := tx.ExecContext(ctx, `DELETE FROM bom_entries WHERE product_id = $1`, productID); err != nil {
		log.Printf("❌ SetBOM: Error deleting old entries: %v", err)
		return nil, fmt.Errorf("failed to delete old BOM entries: %w", err)
	}

	if len(entries) > 0 {
		values := make([]string, len(entries))
		args := make([]interface{}, 0, len(entries)*3+1)
		args = append(args, productID)
		argIndex := 2
		for i, e := range entries {
			unit := e.Unit
			if unit == "" {
				unit = "pcs"
			}
			values[i] = fmt.Sprintf("($1, $%d, $%d, $%d)", argIndex, argIndex+1, argIndex+2)
			args = append(args, e.MaterialID, e.QuantityMilli, unit)
			argIndex += 3
		}

		queryInsert := `INSERT INTO bom_entries (product_id, material_id, quantity_milli, unit) VALUES ` + strings.Join(values, ", ")
		if _, err := tx.ExecContext(ctx, queryInsert, args...); err != nil {
			log.Printf("❌ SetBOM: Error inserting entries: %v", err)
			return nil, fmt.Errorf("failed to insert BOM entries: %w", err)
		}
	}

	// Full resummation over the new BOM, rounding applied once at the end
	var newCost int64
	queryCost := `
		SELECT COALESCE(` + costFormula + `, 0)
		FROM bom_entries be
		JOIN materials m ON m.id = be.material_id
		WHERE be.product_id = $1
	`
	if err := tx.QueryRowContext(ctx, queryCost, productID).Scan(&newCost); err != nil {
		log.Printf("❌ SetBOM: Error recomputing cost: %v", err)
		return nil, fmt.Errorf("failed to recompute cost: %w", err)
	}

	if newCost < 0 {
		log.Printf("❌ SetBOM: Recomputed cost is negative: product_id=%d, cost=%d", productID, newCost)
		return nil, &ConsistencyError{Entity: "product", EntityID: productID, Detail: fmt.Sprintf("recomputed cost_price %d is negative", newCost)}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE products SET cost_price = $1 WHERE id = $2`, newCost, productID); err != nil {
		log.Printf("❌ SetBOM: Error writing cost_price: %v", err)
		return nil, fmt.Errorf("failed to write cost_price: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ SetBOM: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ SetBOM: product_id=%d, cost_price=%d, entries=%d", productID, newCost, len(entries))
	return &models.SetBOMResponse{
		ProductID:  productID,
		CostPrice:  newCost,
		EntryCount: len(entries),
	}, nil
}

// GetBOM retrieves a product with its full bill of materials
func (r *BOMRepository) GetBOM(ctx context.Context, productID int64) (*models.ProductBOMResponse, error) {
	queryProduct := `
		SELECT id, name, cost_price, sale_price, markup_milli, created_at
		FROM products
		WHERE id = $1
	`

	var product models.Product
	var markup sql.NullInt64
	err := r.db.QueryRowContext(ctx, queryProduct, productID).Scan(
		&product.ID,
		&product.Name,
		&product.CostPrice,
		&product.SalePrice,
		&markup,
		&product.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ GetBOM: Product not found: id=%d", productID)
			return nil, ErrNotFound
		}
		log.Printf("❌ GetBOM: Error fetching product: %v", err)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if markup.Valid {
		product.MarkupMilli = &markup.Int64
	}

	queryEntries := `
		SELECT be.product_id, be.material_id, be.quantity_milli, be.unit,
		       m.name, m.unit_cost
		FROM bom_entries be
		JOIN materials m ON m.id = be.material_id
		WHERE be.product_id = $1
		ORDER BY m.name ASC
	`

	rows, err := r.db.QueryContext(ctx, queryEntries, productID)
	if err != nil {
		log.Printf("❌ GetBOM: Error fetching BOM entries: %v", err)
		return nil, fmt.Errorf("failed to fetch BOM entries: %w", err)
	}
	defer rows.Close()

	var entries []models.BOMEntry
	for rows.Next() {
		var e models.BOMEntry
		err := rows.Scan(
			&e.ProductID,
			&e.MaterialID,
			&e.QuantityMilli,
			&e.Unit,
			&e.MaterialName,
			&e.MaterialUnitCost,
		)
		if err != nil {
			log.Printf("❌ GetBOM: Error scanning BOM entry: %v", err)
			return nil, fmt.Errorf("failed to scan BOM entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ GetBOM: Error iterating BOM entries: %v", err)
		return nil, fmt.Errorf("failed to iterate BOM entries: %w", err)
	}

	return &models.ProductBOMResponse{
		Product: product,
		Entries: entries,
	}, nil
}
