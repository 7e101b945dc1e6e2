package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"vongtay-handmade/models"
)

// ProductRepository handles database operations for the product catalog
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(conn *sql.DB) *ProductRepository {
	return &ProductRepository{db: conn}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// Create creates a new product. cost_price starts at 0 and is owned by the
// BOM recompute paths from then on.
func (r *ProductRepository) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	log.Printf("📦 Create: Creating product name=%s, sale_price=%d", req.Name, req.SalePrice)

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if req.SalePrice < 0 {
		return nil, &ValidationError{Field: "salePrice", Reason: "cannot be negative"}
	}
	if req.MarkupMilli != nil && *req.MarkupMilli <= 0 {
		return nil, &ValidationError{Field: "markupMilli", Reason: "must be greater than 0"}
	}

	query := `
		INSERT INTO products (name, sale_price, markup_milli)
		VALUES ($1, $2, $3)
		RETURNING id, name, cost_price, sale_price, markup_milli, created_at
	`

	var product models.Product
	var markup sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(req.Name), req.SalePrice, req.MarkupMilli).Scan(
		&product.ID,
		&product.Name,
		&product.CostPrice,
		&product.SalePrice,
		&markup,
		&product.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ Create: Error creating product: %v", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if markup.Valid {
		product.MarkupMilli = &markup.Int64
	}

	log.Printf("✅ Create: Successfully created product id=%d", product.ID)
	return &product, nil
}

// List retrieves all products ordered by name
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT id, name, cost_price, sale_price, markup_milli, created_at
		FROM products
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ List: Error fetching products: %v", err)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var markup sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.CostPrice, &p.SalePrice, &markup, &p.CreatedAt); err != nil {
			log.Printf("❌ List: Error scanning product: %v", err)
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if markup.Valid {
			p.MarkupMilli = &markup.Int64
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ List: Error iterating products: %v", err)
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}
