package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"vongtay-handmade/db"
	"vongtay-handmade/models"
)

// testDB opens a connection to the test database, runs migrations and
// truncates all tables. Tests are skipped when TEST_DATABASE_URL is unset.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	conn, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, conn.PingContext(context.Background()))
	require.NoError(t, db.Migrate(conn))

	_, err = conn.Exec(`
		TRUNCATE promo_purchases, promo_offers, promo_campaigns,
		         order_items, orders, bom_entries, products, materials
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)

	t.Cleanup(func() { conn.Close() })
	return conn
}

// seedMaterial creates a material and returns it
func seedMaterial(t *testing.T, conn *sql.DB, name string, unitCost int64) *models.Material {
	t.Helper()
	m, err := NewMaterialRepository(conn).Create(context.Background(), &models.CreateMaterialRequest{
		Name:     name,
		UnitCost: unitCost,
	})
	require.NoError(t, err)
	return m
}

// seedProduct creates a product and returns it
func seedProduct(t *testing.T, conn *sql.DB, name string, salePrice int64) *models.Product {
	t.Helper()
	p, err := NewProductRepository(conn).Create(context.Background(), &models.CreateProductRequest{
		Name:      name,
		SalePrice: salePrice,
	})
	require.NoError(t, err)
	return p
}

// productCostPrice reads a product's stored cost_price directly
func productCostPrice(t *testing.T, conn *sql.DB, productID int64) int64 {
	t.Helper()
	var cost int64
	err := conn.QueryRow(`SELECT cost_price FROM products WHERE id = $1`, productID).Scan(&cost)
	require.NoError(t, err)
	return cost
}
