package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"vongtay-handmade/models"
	"vongtay-handmade/utils"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService handles Google Sheets API operations. The shop owner reads
// reconciliation reports and order exports from a shared spreadsheet.
type SheetsService struct {
	client        *sheets.Service
	spreadsheetID string
}

// NewSheetsService creates a new SheetsService instance
// credentialsPath should be the path to the Service Account JSON file
func NewSheetsService(credentialsPath, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	// option.WithCredentialsFile automatically handles Service Account authentication
	sheetsService, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsService{
		client:        sheetsService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Ensure SheetsService implements SheetsServiceInterface
var _ SheetsServiceInterface = (*SheetsService)(nil)

// ExportReconcileReport appends one reconciliation run to the "Reconcile"
// sheet, one row per repaired entity plus a summary row for empty runs.
// Returns the range the values were written to.
func (s *SheetsService) ExportReconcileReport(ctx context.Context, report *models.ReconcileReport) (string, error) {
	log.Printf("📊 ExportReconcileReport: run=%s, deltas=%d", report.RunID, len(report.Deltas))

	var rows [][]interface{}
	if len(report.Deltas) == 0 {
		rows = append(rows, []interface{}{
			report.RunID,
			report.FinishedAt.Format(time.RFC3339),
			"", "", "", "", "clean",
		})
	} else {
		for _, d := range report.Deltas {
			rows = append(rows, []interface{}{
				report.RunID,
				report.FinishedAt.Format(time.RFC3339),
				d.Entity,
				d.EntityID,
				d.OldValue,
				d.NewValue,
				d.Delta,
			})
		}
	}

	valueRange := &sheets.ValueRange{Values: rows}
	resp, err := s.client.Spreadsheets.Values.
		Append(s.spreadsheetID, "Reconcile!A:G", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("❌ ExportReconcileReport: Error appending rows: %v", err)
		return "", fmt.Errorf("failed to append reconcile rows: %w", err)
	}

	log.Printf("✅ ExportReconcileReport: Wrote %d rows to %s", len(rows), resp.Updates.UpdatedRange)
	return resp.Updates.UpdatedRange, nil
}

// ExportOrders appends orders to the "Orders" sheet with formatted amounts
func (s *SheetsService) ExportOrders(ctx context.Context, orders []models.Order) (string, error) {
	log.Printf("📊 ExportOrders: orders=%d", len(orders))

	var rows [][]interface{}
	for _, o := range orders {
		rows = append(rows, []interface{}{
			o.ID,
			o.CreatedAt.Format("2006-01-02"),
			o.Status,
			o.CustomerName,
			o.CustomerPhone,
			utils.FormatVND(o.ShippingCost),
			utils.FormatVND(o.PackagingCost),
			utils.FormatVND(o.TotalAmount),
		})
	}

	if len(rows) == 0 {
		return "", nil
	}

	valueRange := &sheets.ValueRange{Values: rows}
	resp, err := s.client.Spreadsheets.Values.
		Append(s.spreadsheetID, "Orders!A:H", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("❌ ExportOrders: Error appending rows: %v", err)
		return "", fmt.Errorf("failed to append order rows: %w", err)
	}

	log.Printf("✅ ExportOrders: Wrote %d rows to %s", len(rows), resp.Updates.UpdatedRange)
	return resp.Updates.UpdatedRange, nil
}
