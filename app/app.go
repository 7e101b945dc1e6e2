package app

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"vongtay-handmade/app/controller"
	"vongtay-handmade/app/router"
	"vongtay-handmade/db"
	"vongtay-handmade/repository"
	"vongtay-handmade/service"
)

// Initialize wires the application: database → repositories → services →
// controllers → routes. The returned handle is the caller's to close.
func Initialize() (*sql.DB, error) {
	// Connect and migrate
	conn, err := db.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	// Repositories share the injected handle
	materialRepo := repository.NewMaterialRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	bomRepo := repository.NewBOMRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	promoRepo := repository.NewPromoRepository(conn)
	reconcileRepo := repository.NewReconcileRepository(conn)

	// Base URL for the label render endpoint
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}

	labelService := service.NewLabelService(orderRepo, baseURL)

	// Google Sheets export is optional: enabled when credentials and a
	// spreadsheet are configured
	var sheetsService service.SheetsServiceInterface
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
	if credentialsPath != "" && spreadsheetID != "" {
		s, err := service.NewSheetsService(credentialsPath, spreadsheetID)
		if err != nil {
			conn.Close()
			return nil, err
		}
		sheetsService = s
	} else {
		log.Printf("⚠️ Sheets export disabled (GOOGLE_APPLICATION_CREDENTIALS / SHEETS_SPREADSHEET_ID not set)")
	}

	// Telegram notifications are optional too
	var notifyService service.NotifyServiceInterface
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if botToken != "" && chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		n, err := service.NewNotifyService(botToken, chatID)
		if err != nil {
			conn.Close()
			return nil, err
		}
		notifyService = n
	} else {
		log.Printf("⚠️ Telegram notifications disabled (TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID not set)")
	}

	// Create controllers
	controllers := &router.Controllers{
		Material:  controller.NewMaterialController(materialRepo),
		Product:   controller.NewProductController(productRepo, bomRepo),
		Order:     controller.NewOrderController(orderRepo, labelService, sheetsService),
		Promo:     controller.NewPromoController(promoRepo, notifyService),
		Reconcile: controller.NewReconcileController(reconcileRepo, sheetsService, notifyService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return conn, nil
}
