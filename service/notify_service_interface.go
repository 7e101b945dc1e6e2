package service

import "vongtay-handmade/models"

// NotifyServiceInterface defines the contract for owner notifications
type NotifyServiceInterface interface {
	NotifySoldOut(offer *models.PromoOffer, productName string) error
	NotifyReconcileReport(report *models.ReconcileReport) error
}
