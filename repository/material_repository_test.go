package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vongtay-handmade/models"
)

func TestMaterialRepository_Create_Validation(t *testing.T) {
	conn := testDB(t)
	repo := NewMaterialRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.CreateMaterialRequest{Name: "  ", UnitCost: 100})
	assert.True(t, IsValidation(err), "blank name should be a validation error")

	_, err = repo.Create(ctx, &models.CreateMaterialRequest{Name: "silver_bead", UnitCost: -1})
	assert.True(t, IsValidation(err), "negative cost should be a validation error")
}

func TestMaterialRepository_UpdateCost_CascadesToAllReferencingProducts(t *testing.T) {
	conn := testDB(t)
	materialRepo := NewMaterialRepository(conn)
	bomRepo := NewBOMRepository(conn)
	ctx := context.Background()

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	cord := seedMaterial(t, conn, "leather_cord", 8000)

	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	anklet := seedProduct(t, conn, "bead_anklet", 90000)
	plain := seedProduct(t, conn, "plain_band", 40000)

	// bracelet uses 3 beads + 1 cord; anklet uses 2 beads; plain uses 1 cord
	_, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 3000},
		{MaterialID: cord.ID, QuantityMilli: 1000},
	})
	require.NoError(t, err)
	_, err = bomRepo.SetBOM(ctx, anklet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 2000},
	})
	require.NoError(t, err)
	_, err = bomRepo.SetBOM(ctx, plain.ID, []models.SetBOMEntry{
		{MaterialID: cord.ID, QuantityMilli: 1000},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3*15000+8000), productCostPrice(t, conn, bracelet.ID))
	assert.Equal(t, int64(2*15000), productCostPrice(t, conn, anklet.ID))
	assert.Equal(t, int64(8000), productCostPrice(t, conn, plain.ID))

	// Raise the bead price; exactly the two bead-using products recompute
	resp, err := materialRepo.UpdateCost(ctx, bead.ID, 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), resp.Material.UnitCost)
	assert.Equal(t, int64(2), resp.ProductsRecomputed)

	assert.Equal(t, int64(3*20000+8000), productCostPrice(t, conn, bracelet.ID))
	assert.Equal(t, int64(2*20000), productCostPrice(t, conn, anklet.ID))
	assert.Equal(t, int64(8000), productCostPrice(t, conn, plain.ID), "cord-only product must be untouched")
}

func TestMaterialRepository_UpdateCost_NotFound(t *testing.T) {
	conn := testDB(t)
	repo := NewMaterialRepository(conn)

	_, err := repo.UpdateCost(context.Background(), 9999, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaterialRepository_Delete_RejectedWhileReferenced(t *testing.T) {
	conn := testDB(t)
	materialRepo := NewMaterialRepository(conn)
	bomRepo := NewBOMRepository(conn)
	ctx := context.Background()

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)

	_, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 1000},
	})
	require.NoError(t, err)

	err = materialRepo.Delete(ctx, bead.ID)
	assert.True(t, IsValidation(err), "delete must be rejected while a BOM references the material")

	// Unreferenced after the BOM is emptied; delete succeeds
	_, err = bomRepo.SetBOM(ctx, bracelet.ID, nil)
	require.NoError(t, err)
	require.NoError(t, materialRepo.Delete(ctx, bead.ID))

	err = materialRepo.Delete(ctx, bead.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
