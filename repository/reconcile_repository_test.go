package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vongtay-handmade/models"
)

func TestReconcileRepository_CleanDatabaseReportsNoDeltas(t *testing.T) {
	conn := testDB(t)
	repo := NewReconcileRepository(conn)

	bead := seedMaterial(t, conn, "silver_bead", 15000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	_, err := NewBOMRepository(conn).SetBOM(context.Background(), bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 2000},
	})
	require.NoError(t, err)

	report, err := repo.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.Deltas, "a consistent database needs no repairs")
}

func TestReconcileRepository_RepairsCorruptedValues(t *testing.T) {
	conn := testDB(t)
	reconcileRepo := NewReconcileRepository(conn)
	promoRepo := NewPromoRepository(conn)
	orderRepo := NewOrderRepository(conn)
	ctx := context.Background()

	// Consistent state first
	bead := seedMaterial(t, conn, "silver_bead", 15000)
	bracelet := seedProduct(t, conn, "charm_bracelet", 120000)
	_, err := NewBOMRepository(conn).SetBOM(ctx, bracelet.ID, []models.SetBOMEntry{
		{MaterialID: bead.ID, QuantityMilli: 2000},
	})
	require.NoError(t, err)

	order, err := orderRepo.Create(ctx, &models.CreateOrderRequest{ShippingCost: 25000, PackagingCost: 5000})
	require.NoError(t, err)
	_, err = orderRepo.AddItem(ctx, order.ID, bracelet.ID, 2)
	require.NoError(t, err)

	campaign, err := promoRepo.CreateCampaign(ctx, &models.CreateCampaignRequest{
		Name:      "Sale 9.9",
		StartTime: time.Now().Add(-time.Hour),
		EndTime:   time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, promoRepo.SetCampaignStatus(ctx, campaign.ID, models.CampaignStatusActive))
	_, err = promoRepo.ReplaceOffers(ctx, campaign.ID, []models.ReplaceOfferEntry{
		{ProductID: bracelet.ID, PromoPrice: 99000, StockLimit: 10, MaxPerCustomer: 5},
	})
	require.NoError(t, err)
	offers, err := promoRepo.ListOffers(ctx, campaign.ID)
	require.NoError(t, err)
	result, err := promoRepo.Purchase(ctx, offers[0].ID, "+84901234567", 3)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseOK, result.Status)

	// Corrupt each derived value behind the engine's back
	_, err = conn.Exec(`UPDATE products SET cost_price = 1 WHERE id = $1`, bracelet.ID)
	require.NoError(t, err)
	_, err = conn.Exec(`UPDATE orders SET total_amount = 7 WHERE id = $1`, order.ID)
	require.NoError(t, err)
	_, err = conn.Exec(`UPDATE promo_offers SET sold_count = 9 WHERE id = $1`, offers[0].ID)
	require.NoError(t, err)

	report, err := reconcileRepo.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 3)

	byEntity := make(map[string]models.ReconcileDelta)
	for _, d := range report.Deltas {
		byEntity[d.Entity] = d
	}

	product := byEntity[models.ReconcileEntityProduct]
	assert.Equal(t, bracelet.ID, product.EntityID)
	assert.Equal(t, int64(1), product.OldValue)
	assert.Equal(t, int64(30000), product.NewValue)
	assert.Equal(t, int64(29999), product.Delta)

	orderDelta := byEntity[models.ReconcileEntityOrder]
	assert.Equal(t, int64(7), orderDelta.OldValue)
	assert.Equal(t, int64(2*120000+30000), orderDelta.NewValue)

	offerDelta := byEntity[models.ReconcileEntityOffer]
	assert.Equal(t, int64(9), offerDelta.OldValue)
	assert.Equal(t, int64(3), offerDelta.NewValue)

	// Stored values now match the recomputation
	assert.Equal(t, int64(30000), productCostPrice(t, conn, bracelet.ID))

	// Idempotent: a second run finds nothing to repair
	report, err = reconcileRepo.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Deltas)
}

func TestReconcileRepository_ProductWithoutBOMReconcilesToZero(t *testing.T) {
	conn := testDB(t)
	repo := NewReconcileRepository(conn)
	ctx := context.Background()

	plain := seedProduct(t, conn, "plain_band", 40000)
	_, err := conn.Exec(`UPDATE products SET cost_price = 12345 WHERE id = $1`, plain.ID)
	require.NoError(t, err)

	report, err := repo.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, report.Deltas, 1)
	assert.Equal(t, int64(0), report.Deltas[0].NewValue)
	assert.Equal(t, int64(0), productCostPrice(t, conn, plain.ID))
}
