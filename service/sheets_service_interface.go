package service

import (
	"context"

	"vongtay-handmade/models"
)

// SheetsServiceInterface defines the contract for Google Sheets exports
type SheetsServiceInterface interface {
	ExportReconcileReport(ctx context.Context, report *models.ReconcileReport) (string, error)
	ExportOrders(ctx context.Context, orders []models.Order) (string, error)
}
