package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vongtay-handmade/models"
)

// fakeOrderRepo serves canned orders for the export handler
type fakeOrderRepo struct {
	orders    []models.Order
	gotDay    time.Time
	listErr   error
	listCalls int
}

func (f *fakeOrderRepo) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderTotalResponse, error) {
	return nil, nil
}

func (f *fakeOrderRepo) RemoveItem(ctx context.Context, itemID int64) (*models.OrderTotalResponse, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateCharges(ctx context.Context, orderID, shippingCost, packagingCost int64) (*models.OrderTotalResponse, error) {
	return nil, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID int64) (*models.OrderResponse, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByDay(ctx context.Context, day time.Time) ([]models.Order, error) {
	f.listCalls++
	f.gotDay = day
	return f.orders, f.listErr
}

// fakeSheets records what was exported
type fakeSheets struct {
	gotOrders []models.Order
	rng       string
}

func (f *fakeSheets) ExportReconcileReport(ctx context.Context, report *models.ReconcileReport) (string, error) {
	return "", nil
}

func (f *fakeSheets) ExportOrders(ctx context.Context, orders []models.Order) (string, error) {
	f.gotOrders = orders
	return f.rng, nil
}

func TestOrderController_Export(t *testing.T) {
	repo := &fakeOrderRepo{orders: []models.Order{
		{ID: 1, TotalAmount: 150000},
		{ID: 2, TotalAmount: 99000},
	}}
	sheets := &fakeSheets{rng: "Orders!A3:H4"}
	c := NewOrderController(repo, nil, sheets)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/export?date=2026-08-29", nil)
	rec := httptest.NewRecorder()
	c.Export(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 2026, repo.gotDay.Year())
	assert.Equal(t, time.August, repo.gotDay.Month())
	assert.Equal(t, 29, repo.gotDay.Day())
	assert.Len(t, sheets.gotOrders, 2)
	assert.Contains(t, rec.Body.String(), `"exportedCount":2`)
	assert.Contains(t, rec.Body.String(), "Orders!A3:H4")
}

func TestOrderController_Export_DefaultsToToday(t *testing.T) {
	repo := &fakeOrderRepo{}
	c := NewOrderController(repo, nil, &fakeSheets{})

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/export", nil)
	rec := httptest.NewRecorder()
	c.Export(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Now().Day(), repo.gotDay.Day())
}

func TestOrderController_Export_BadDate(t *testing.T) {
	repo := &fakeOrderRepo{}
	c := NewOrderController(repo, nil, &fakeSheets{})

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/export?date=29-08-2026", nil)
	rec := httptest.NewRecorder()
	c.Export(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.listCalls)
}

func TestOrderController_Export_NotConfigured(t *testing.T) {
	c := NewOrderController(&fakeOrderRepo{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/export", nil)
	rec := httptest.NewRecorder()
	c.Export(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
