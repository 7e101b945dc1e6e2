package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vongtay-handmade/models"
)

func TestBOMRepository_SetBOM_RecomputesCost(t *testing.T) {
	conn := testDB(t)
	bomRepo := NewBOMRepository(conn)
	ctx := context.Background()

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	charm := seedMaterial(t, conn, "star_charm", 22000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)

	resp, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 3000},
		{MaterialID: charm.ID, QuantityMilli: 1000, Unit: "pcs"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3*15000+22000), resp.CostPrice)
	assert.Equal(t, 2, resp.EntryCount)

	// Replacement fully discards the previous set
	resp, err = bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: charm.ID, QuantityMilli: 2000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2*22000), resp.CostPrice)

	got, err := bomRepo.GetBOM(ctx, bracelet.ID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, charm.ID, got.Entries[0].MaterialID)
	assert.Equal(t, int64(2*22000), got.Product.CostPrice)
}

func TestBOMRepository_SetBOM_FractionalQuantityRoundsHalfUp(t *testing.T) {
	conn := testDB(t)
	bomRepo := NewBOMRepository(conn)
	ctx := context.Background()

	// 2.5 × 15001 = 37502.5 → rounds up to 37503
	bead := seedMaterial(t, conn, "silver_bead", 15001)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)

	resp, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 2500},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(37503), resp.CostPrice)

	// 0.1 × 4 = 0.4 → rounds down to 0; rounding is applied once over the
	// whole sum, not per entry
	tiny := seedMaterial(t, conn, "glue_dab", 4)
	resp, err = bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: tiny.ID, QuantityMilli: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.CostPrice)
}

func TestBOMRepository_SetBOM_EmptyBOMZeroesCost(t *testing.T) {
	conn := testDB(t)
	bomRepo := NewBOMRepository(conn)
	ctx := context.Background()

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)

	_, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 1000},
	})
	require.NoError(t, err)
	require.Equal(t, int64(15000), productCostPrice(t, conn, bracelet.ID))

	resp, err := bomRepo.SetBOM(ctx, bracelet.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.CostPrice)
	assert.Equal(t, int64(0), productCostPrice(t, conn, bracelet.ID))
}

func TestBOMRepository_SetBOM_Rejections(t *testing.T) {
	conn := testDB(t)
	bomRepo := NewBOMRepository(conn)
	ctx := context.Background()

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)

	// Unknown material: hard rejection, nothing written
	_, err := bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 1000},
		{MaterialID: 9999, QuantityMilli: 1000},
	})
	assert.True(t, IsValidation(err))
	got, err := bomRepo.GetBOM(ctx, bracelet.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Entries, "rejected SetBOM must not leave partial entries")

	// Non-positive quantity
	_, err = bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 0},
	})
	assert.True(t, IsValidation(err))

	// Duplicate material
	_, err = bomRepo.SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 1000},
		{MaterialID: bead.ID, QuantityMilli: 2000},
	})
	assert.True(t, IsValidation(err))

	// Unknown product
	_, err = bomRepo.SetBOM(ctx, 9999, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 1000},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
