package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vongtay-handmade/models"
)

// ReconcileRepository runs the full-recompute reconciliation job
type ReconcileRepository struct {
	db *sql.DB
}

// NewReconcileRepository creates a new ReconcileRepository
func NewReconcileRepository(conn *sql.DB) *ReconcileRepository {
	return &ReconcileRepository{db: conn}
}

// Ensure ReconcileRepository implements ReconcileRepositoryInterface
var _ ReconcileRepositoryInterface = (*ReconcileRepository)(nil)

// ReconcileAll recomputes every derived value from its sources and repairs
// any stored value that disagrees, reporting each repair as a delta. The
// job trusts only source data: BOM entries and material costs for product
// cost_price, item snapshots and charges for order total_amount, the
// purchase ledger for offer sold_count. Running it twice in a row yields
// an empty report the second time.
func (r *ReconcileRepository) ReconcileAll(ctx context.Context) (*models.ReconcileReport, error) {
	runID := uuid.New().String()
	startedAt := time.Now()
	log.Printf("🔄 ReconcileAll: Starting run %s", runID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ ReconcileAll: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var deltas []models.ReconcileDelta

	productDeltas, err := r.reconcileProducts(ctx, tx)
	if err != nil {
		return nil, err
	}
	deltas = append(deltas, productDeltas...)

	orderDeltas, err := r.reconcileOrders(ctx, tx)
	if err != nil {
		return nil, err
	}
	deltas = append(deltas, orderDeltas...)

	offerDeltas, err := r.reconcileOffers(ctx, tx)
	if err != nil {
		return nil, err
	}
	deltas = append(deltas, offerDeltas...)

	if err := tx.Commit(); err != nil {
		log.Printf("❌ ReconcileAll: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	finishedAt := time.Now()
	log.Printf("✅ ReconcileAll: Run %s finished, %d repairs in %s", runID, len(deltas), finishedAt.Sub(startedAt))

	return &models.ReconcileReport{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Deltas:     deltas,
	}, nil
}

// reconcileProducts repairs product.cost_price against the BOM. Products
// with no BOM entries reconcile to 0. A BOM row pointing at a deleted
// material (only possible via manual SQL) contributes nothing; the LEFT
// JOIN keeps the product reconcilable instead of dropping it.
func (r *ReconcileRepository) reconcileProducts(ctx context.Context, tx *sql.Tx) ([]models.ReconcileDelta, error) {
	query := `
		WITH expected AS (
			SELECT p.id,
			       p.cost_price AS stored,
			       COALESCE((SUM(be.quantity_milli * m.unit_cost) + 500) / 1000, 0) AS recomputed
			FROM products p
			LEFT JOIN bom_entries be ON be.product_id = p.id
			LEFT JOIN materials m ON m.id = be.material_id
			GROUP BY p.id, p.cost_price
		),
		repaired AS (
			UPDATE products p
			SET cost_price = e.recomputed
			FROM expected e
			WHERE p.id = e.id AND p.cost_price <> e.recomputed
			RETURNING p.id, e.stored, e.recomputed
		)
		SELECT id, stored, recomputed FROM repaired ORDER BY id ASC
	`

	deltas, err := r.collectDeltas(ctx, tx, query, models.ReconcileEntityProduct)
	if err != nil {
		log.Printf("❌ ReconcileAll: Error reconciling products: %v", err)
		return nil, fmt.Errorf("failed to reconcile products: %w", err)
	}
	if len(deltas) > 0 {
		log.Printf("💰 ReconcileAll: Repaired cost_price on %d products", len(deltas))
	}
	return deltas, nil
}

// reconcileOrders repairs order.total_amount from item snapshots plus
// shipping and packaging charges
func (r *ReconcileRepository) reconcileOrders(ctx context.Context, tx *sql.Tx) ([]models.ReconcileDelta, error) {
	query := `
		WITH expected AS (
			SELECT o.id,
			       o.total_amount AS stored,
			       COALESCE((SELECT SUM(oi.unit_price * oi.quantity) FROM order_items oi WHERE oi.order_id = o.id), 0)
			           + o.shipping_cost + o.packaging_cost AS recomputed
			FROM orders o
		),
		repaired AS (
			UPDATE orders o
			SET total_amount = e.recomputed, updated_at = NOW()
			FROM expected e
			WHERE o.id = e.id AND o.total_amount <> e.recomputed
			RETURNING o.id, e.stored, e.recomputed
		)
		SELECT id, stored, recomputed FROM repaired ORDER BY id ASC
	`

	deltas, err := r.collectDeltas(ctx, tx, query, models.ReconcileEntityOrder)
	if err != nil {
		log.Printf("❌ ReconcileAll: Error reconciling orders: %v", err)
		return nil, fmt.Errorf("failed to reconcile orders: %w", err)
	}
	if len(deltas) > 0 {
		log.Printf("🛒 ReconcileAll: Repaired total_amount on %d orders", len(deltas))
	}
	return deltas, nil
}

// reconcileOffers repairs promo_offer.sold_count against the purchase
// ledger, the source of truth the guarded updates maintain
func (r *ReconcileRepository) reconcileOffers(ctx context.Context, tx *sql.Tx) ([]models.ReconcileDelta, error) {
	query := `
		WITH expected AS (
			SELECT o.id,
			       o.sold_count AS stored,
			       COALESCE((SELECT SUM(pp.quantity) FROM promo_purchases pp WHERE pp.offer_id = o.id), 0) AS recomputed
			FROM promo_offers o
		),
		repaired AS (
			UPDATE promo_offers o
			SET sold_count = e.recomputed
			FROM expected e
			WHERE o.id = e.id AND o.sold_count <> e.recomputed
			RETURNING o.id, e.stored, e.recomputed
		)
		SELECT id, stored, recomputed FROM repaired ORDER BY id ASC
	`

	deltas, err := r.collectDeltas(ctx, tx, query, models.ReconcileEntityOffer)
	if err != nil {
		log.Printf("❌ ReconcileAll: Error reconciling offers: %v", err)
		return nil, fmt.Errorf("failed to reconcile offers: %w", err)
	}
	if len(deltas) > 0 {
		log.Printf("🔥 ReconcileAll: Repaired sold_count on %d offers", len(deltas))
	}
	return deltas, nil
}

// collectDeltas runs one repair query returning (id, stored, recomputed)
// rows and maps them to deltas for the report
func (r *ReconcileRepository) collectDeltas(ctx context.Context, tx *sql.Tx, query, entity string) ([]models.ReconcileDelta, error) {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deltas []models.ReconcileDelta
	for rows.Next() {
		var d models.ReconcileDelta
		if err := rows.Scan(&d.EntityID, &d.OldValue, &d.NewValue); err != nil {
			return nil, err
		}
		d.Entity = entity
		d.Delta = d.NewValue - d.OldValue
		deltas = append(deltas, d)
	}

	return deltas, rows.Err()
}
