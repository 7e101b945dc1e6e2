package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"vongtay-handmade/models"
)

// OrderRepository handles database operations for orders and order items
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(conn *sql.DB) *OrderRepository {
	return &OrderRepository{db: conn}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// recomputeOrderTotal resums the order total from the current item
// snapshots plus shipping and packaging, inside the caller's transaction.
// Always a full resummation; never an incremental delta.
func recomputeOrderTotal(ctx context.Context, tx *sql.Tx, orderID int64) (int64, error) {
	query := `
		UPDATE orders
		SET total_amount = COALESCE((
			SELECT SUM(unit_price * quantity)
			FROM order_items
			WHERE order_id = orders.id
		), 0) + shipping_cost + packaging_cost,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING total_amount
	`

	var total int64
	if err := tx.QueryRowContext(ctx, query, orderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to recompute order total: %w", err)
	}

	if total < 0 {
		return 0, &ConsistencyError{Entity: "order", EntityID: orderID, Detail: fmt.Sprintf("recomputed total_amount %d is negative", total)}
	}

	return total, nil
}

// Create creates a new order with no items. The initial total is just
// shipping plus packaging, which is what the resummation formula yields
// for an empty item set.
func (r *OrderRepository) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	log.Printf("🛒 Create: Creating order for customer=%s", req.CustomerName)

	if req.ShippingCost < 0 {
		return nil, &ValidationError{Field: "shippingCost", Reason: "cannot be negative"}
	}
	if req.PackagingCost < 0 {
		return nil, &ValidationError{Field: "packagingCost", Reason: "cannot be negative"}
	}

	query := `
		INSERT INTO orders (status, customer_name, customer_phone, shipping_cost, packaging_cost, total_amount)
		VALUES ('new', $1, $2, $3, $4, $3 + $4)
		RETURNING id, status, customer_name, customer_phone, shipping_cost, packaging_cost, total_amount, created_at, updated_at
	`

	var order models.Order
	var customerName, customerPhone sql.NullString
	err := r.db.QueryRowContext(ctx, query,
		sql.NullString{String: req.CustomerName, Valid: req.CustomerName != ""},
		sql.NullString{String: req.CustomerPhone, Valid: req.CustomerPhone != ""},
		req.ShippingCost,
		req.PackagingCost,
	).Scan(
		&order.ID,
		&order.Status,
		&customerName,
		&customerPhone,
		&order.ShippingCost,
		&order.PackagingCost,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		log.Printf("❌ Create: Error creating order: %v", err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if customerName.Valid {
		order.CustomerName = customerName.String
	}
	if customerPhone.Valid {
		order.CustomerPhone = customerPhone.String
	}

	log.Printf("✅ Create: Successfully created order id=%d", order.ID)
	return &order, nil
}

// AddItem adds a product to an order, snapshotting the product's current
// sale price and cost price into the line, then recomputes the order total
// in the same transaction. Adding the same product again accumulates
// quantity but keeps the original snapshot.
func (r *OrderRepository) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderTotalResponse, error) {
	log.Printf("🛒 AddItem: order_id=%d, product_id=%d, quantity=%d", orderID, productID, quantity)

	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ AddItem: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the order row so concurrent item edits serialize
	var orderStatus string
	queryOrder := `SELECT status FROM orders WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, queryOrder, orderID).Scan(&orderStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ AddItem: Order not found: id=%d", orderID)
			return nil, ErrNotFound
		}
		log.Printf("❌ AddItem: Error fetching order: %v", err)
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if orderStatus == "canceled" || orderStatus == "shipped" {
		log.Printf("❌ AddItem: Order not editable: status=%s", orderStatus)
		return nil, &ValidationError{Field: "orderId", Reason: fmt.Sprintf("order in status %s cannot be edited", orderStatus)}
	}

	// Snapshot the product's live prices at add time. This is the only
	// moment the aggregator reads the products table; total recomputation
	// afterwards only ever reads the snapshot columns.
	var salePrice, costPrice int64
	queryProduct := `SELECT sale_price, cost_price FROM products WHERE id = $1`
	err = tx.QueryRowContext(ctx, queryProduct, productID).Scan(&salePrice, &costPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ AddItem: Product not found: id=%d", productID)
			return nil, ErrNotFound
		}
		log.Printf("❌ AddItem: Error fetching product: %v", err)
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	queryUpsert := `
		INSERT INTO order_items (order_id, product_id, unit_price, unit_cost, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id, product_id)
		DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity
	`
	if _, err := tx.ExecContext(ctx, queryUpsert, orderID, productID, salePrice, costPrice, quantity); err != nil {
		log.Printf("❌ AddItem: Error upserting item: %v", err)
		return nil, fmt.Errorf("failed to upsert order item: %w", err)
	}

	total, err := recomputeOrderTotal(ctx, tx, orderID)
	if err != nil {
		log.Printf("❌ AddItem: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ AddItem: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ AddItem: order_id=%d, total_amount=%d", orderID, total)
	return &models.OrderTotalResponse{OrderID: orderID, TotalAmount: total}, nil
}

// RemoveItem deletes an order line and recomputes the total. Removing the
// last item leaves total_amount = shipping_cost + packaging_cost; whether
// an empty order is acceptable is the caller's policy, not enforced here.
func (r *OrderRepository) RemoveItem(ctx context.Context, itemID int64) (*models.OrderTotalResponse, error) {
	log.Printf("🛒 RemoveItem: item_id=%d", itemID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ RemoveItem: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	queryDelete := `DELETE FROM order_items WHERE id = $1 RETURNING order_id`
	err = tx.QueryRowContext(ctx, queryDelete, itemID).Scan(&orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ RemoveItem: Item not found: id=%d", itemID)
			return nil, ErrNotFound
		}
		log.Printf("❌ RemoveItem: Error deleting item: %v", err)
		return nil, fmt.Errorf("failed to delete order item: %w", err)
	}

	total, err := recomputeOrderTotal(ctx, tx, orderID)
	if err != nil {
		log.Printf("❌ RemoveItem: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ RemoveItem: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ RemoveItem: order_id=%d, total_amount=%d", orderID, total)
	return &models.OrderTotalResponse{OrderID: orderID, TotalAmount: total}, nil
}

// UpdateCharges updates an order's shipping and packaging costs and
// recomputes the total in the same transaction.
func (r *OrderRepository) UpdateCharges(ctx context.Context, orderID, shippingCost, packagingCost int64) (*models.OrderTotalResponse, error) {
	log.Printf("🛒 UpdateCharges: order_id=%d, shipping=%d, packaging=%d", orderID, shippingCost, packagingCost)

	if shippingCost < 0 {
		return nil, &ValidationError{Field: "shippingCost", Reason: "cannot be negative"}
	}
	if packagingCost < 0 {
		return nil, &ValidationError{Field: "packagingCost", Reason: "cannot be negative"}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ UpdateCharges: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE orders SET shipping_cost = $1, packaging_cost = $2 WHERE id = $3`,
		shippingCost, packagingCost, orderID)
	if err != nil {
		log.Printf("❌ UpdateCharges: Error updating charges: %v", err)
		return nil, fmt.Errorf("failed to update charges: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update row count: %w", err)
	}
	if affected == 0 {
		log.Printf("❌ UpdateCharges: Order not found: id=%d", orderID)
		return nil, ErrNotFound
	}

	total, err := recomputeOrderTotal(ctx, tx, orderID)
	if err != nil {
		log.Printf("❌ UpdateCharges: %v", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ UpdateCharges: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ UpdateCharges: order_id=%d, total_amount=%d", orderID, total)
	return &models.OrderTotalResponse{OrderID: orderID, TotalAmount: total}, nil
}

// ListByDay retrieves the orders created on one calendar day, oldest first.
// The day boundary is taken in the given time's location.
func (r *OrderRepository) ListByDay(ctx context.Context, day time.Time) ([]models.Order, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	query := `
		SELECT id, status, customer_name, customer_phone, shipping_cost, packaging_cost, total_amount, created_at, updated_at
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		log.Printf("❌ ListByDay: Error fetching orders: %v", err)
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var customerName, customerPhone sql.NullString
		err := rows.Scan(
			&order.ID,
			&order.Status,
			&customerName,
			&customerPhone,
			&order.ShippingCost,
			&order.PackagingCost,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			log.Printf("❌ ListByDay: Error scanning order: %v", err)
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if customerName.Valid {
			order.CustomerName = customerName.String
		}
		if customerPhone.Valid {
			order.CustomerPhone = customerPhone.String
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ ListByDay: Error iterating orders: %v", err)
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*models.OrderResponse, error) {
	queryOrder := `
		SELECT id, status, customer_name, customer_phone, shipping_cost, packaging_cost, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order models.Order
	var customerName, customerPhone sql.NullString
	err := r.db.QueryRowContext(ctx, queryOrder, orderID).Scan(
		&order.ID,
		&order.Status,
		&customerName,
		&customerPhone,
		&order.ShippingCost,
		&order.PackagingCost,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ GetByID: Order not found: id=%d", orderID)
			return nil, ErrNotFound
		}
		log.Printf("❌ GetByID: Error fetching order: %v", err)
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	if customerName.Valid {
		order.CustomerName = customerName.String
	}
	if customerPhone.Valid {
		order.CustomerPhone = customerPhone.String
	}

	queryItems := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.unit_price, oi.unit_cost, oi.quantity, oi.created_at,
		       p.name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC
	`

	rows, err := r.db.QueryContext(ctx, queryItems, orderID)
	if err != nil {
		log.Printf("❌ GetByID: Error fetching items: %v", err)
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.UnitPrice,
			&item.UnitCost,
			&item.Quantity,
			&item.CreatedAt,
			&item.ProductName,
		)
		if err != nil {
			log.Printf("❌ GetByID: Error scanning item: %v", err)
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ GetByID: Error iterating items: %v", err)
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return &models.OrderResponse{
		Order: order,
		Items: items,
	}, nil
}
