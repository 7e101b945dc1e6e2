package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vongtay-handmade/models"
)

func TestOrderRepository_Create_TotalIsCharges(t *testing.T) {
	conn := testDB(t)
	repo := NewOrderRepository(conn)

	order, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		CustomerName:  "Chị Lan",
		ShippingCost:  25000,
		PackagingCost: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), order.TotalAmount)
	assert.Equal(t, "new", order.Status)
}

func TestOrderRepository_AddItem_SnapshotsAndRecomputes(t *testing.T) {
	conn := testDB(t)
	orderRepo := NewOrderRepository(conn)
	bomRepo := NewBOMRepository(conn)
	materialRepo := NewMaterialRepository(conn)
	ctx := context.Background()

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	_, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 2000},
	})
	require.NoError(t, err)

	order, err := orderRepo.Create(ctx, &models.CreateOrderRequest{ShippingCost: 25000, PackagingCost: 5000})
	require.NoError(t, err)

	resp, err := orderRepo.AddItem(ctx, order.ID, bracelet.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2*120000+30000), resp.TotalAmount)

	// Later catalog changes never touch existing lines
	_, err = materialRepo.UpdateCost(ctx, bead.ID, 99000)
	require.NoError(t, err)
	_, err = conn.Exec(`UPDATE products SET sale_price = 150000 WHERE id = $1`, bracelet.ID)
	require.NoError(t, err)

	got, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(120000), got.Items[0].UnitPrice, "unit_price snapshot must not move")
	assert.Equal(t, int64(2*15000), got.Items[0].UnitCost, "unit_cost snapshot must not move")
	assert.Equal(t, int64(2*120000+30000), got.TotalAmount)

	// Adding the same product again accumulates quantity at the original
	// snapshot, not at the new sale price
	resp, err = orderRepo.AddItem(ctx, order.ID, bracelet.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3*120000+30000), resp.TotalAmount)
}

func TestOrderRepository_RemoveItem_LastItemLeavesCharges(t *testing.T) {
	conn := testDB(t)
	orderRepo := NewOrderRepository(conn)
	ctx := context.Background()

	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	order, err := orderRepo.Create(ctx, &models.CreateOrderRequest{ShippingCost: 25000, PackagingCost: 5000})
	require.NoError(t, err)
	_, err = orderRepo.AddItem(ctx, order.ID, bracelet.ID, 1)
	require.NoError(t, err)

	got, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	resp, err := orderRepo.RemoveItem(ctx, got.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), resp.TotalAmount, "empty order totals to shipping + packaging")

	_, err = orderRepo.RemoveItem(ctx, got.Items[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_UpdateCharges_Recomputes(t *testing.T) {
	conn := testDB(t)
	orderRepo := NewOrderRepository(conn)
	ctx := context.Background()

	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	order, err := orderRepo.Create(ctx, &models.CreateOrderRequest{ShippingCost: 25000, PackagingCost: 5000})
	require.NoError(t, err)
	_, err = orderRepo.AddItem(ctx, order.ID, bracelet.ID, 1)
	require.NoError(t, err)

	resp, err := orderRepo.UpdateCharges(ctx, order.ID, 30000, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(120000+30000), resp.TotalAmount)

	_, err = orderRepo.UpdateCharges(ctx, order.ID, -1, 0)
	assert.True(t, IsValidation(err))

	_, err = orderRepo.UpdateCharges(ctx, 9999, 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_ListByDay(t *testing.T) {
	conn := testDB(t)
	orderRepo := NewOrderRepository(conn)
	ctx := context.Background()

	first, err := orderRepo.Create(ctx, &models.CreateOrderRequest{CustomerName: "Chị Lan", ShippingCost: 25000})
	require.NoError(t, err)
	second, err := orderRepo.Create(ctx, &models.CreateOrderRequest{CustomerName: "Anh Minh", PackagingCost: 5000})
	require.NoError(t, err)

	// Push one order out of today's window
	_, err = conn.Exec(`UPDATE orders SET created_at = created_at - INTERVAL '2 days' WHERE id = $1`, second.ID)
	require.NoError(t, err)

	orders, err := orderRepo.ListByDay(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, "Chị Lan", orders[0].CustomerName)

	orders, err = orderRepo.ListByDay(ctx, time.Now().AddDate(0, 0, -2))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, second.ID, orders[0].ID)

	orders, err = orderRepo.ListByDay(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_AddItem_RejectedOnClosedOrder(t *testing.T) {
	conn := testDB(t)
	orderRepo := NewOrderRepository(conn)
	ctx := context.Background()

	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	order, err := orderRepo.Create(ctx, &models.CreateOrderRequest{})
	require.NoError(t, err)

	_, err = conn.Exec(`UPDATE orders SET status = 'shipped' WHERE id = $1`, order.ID)
	require.NoError(t, err)

	_, err = orderRepo.AddItem(ctx, order.ID, bracelet.ID, 1)
	assert.True(t, IsValidation(err), "shipped orders must not accept items")
}
