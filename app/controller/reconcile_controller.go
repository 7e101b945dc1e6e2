package controller

import (
	"context"
	"log"
	"net/http"

	"vongtay-handmade/repository"
	"vongtay-handmade/service"
)

// ReconcileController handles HTTP requests for the reconciliation job
type ReconcileController struct {
	repository    repository.ReconcileRepositoryInterface
	sheetsService service.SheetsServiceInterface
	notifyService service.NotifyServiceInterface
}

// NewReconcileController creates a new ReconcileController
// sheetsService and notifyService may be nil when not configured
func NewReconcileController(
	repo repository.ReconcileRepositoryInterface,
	sheetsService service.SheetsServiceInterface,
	notifyService service.NotifyServiceInterface,
) *ReconcileController {
	return &ReconcileController{
		repository:    repo,
		sheetsService: sheetsService,
		notifyService: notifyService,
	}
}

// Run handles POST /admin/reconcile
// Recomputes every derived value, repairs mismatches, and returns the
// report. Exports and notifications are best-effort side effects.
func (c *ReconcileController) Run(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Run: Received %s request to %s", r.Method, r.URL.Path)

	ctx := context.Background()
	report, err := c.repository.ReconcileAll(ctx)
	if err != nil {
		log.Printf("❌ Run: Reconciliation failed: %v", err)
		writeRepositoryError(w, err)
		return
	}

	if c.sheetsService != nil {
		if _, err := c.sheetsService.ExportReconcileReport(ctx, report); err != nil {
			log.Printf("⚠️ Run: Sheets export failed: %v", err)
		}
	}
	if c.notifyService != nil {
		if err := c.notifyService.NotifyReconcileReport(report); err != nil {
			log.Printf("⚠️ Run: Telegram notification failed: %v", err)
		}
	}

	log.Printf("✅ Run: Reconciliation %s finished with %d repairs", report.RunID, len(report.Deltas))
	writeJSON(w, http.StatusOK, report)
}
