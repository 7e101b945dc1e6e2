package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vongtay-handmade/models"
)

// PromoRepository handles database operations for promotional campaigns,
// offers and the capped purchase ledger
type PromoRepository struct {
	db *sql.DB
}

// NewPromoRepository creates a new PromoRepository
func NewPromoRepository(conn *sql.DB) *PromoRepository {
	return &PromoRepository{db: conn}
}

// Ensure PromoRepository implements PromoRepositoryInterface
var _ PromoRepositoryInterface = (*PromoRepository)(nil)

// CreateCampaign creates a new campaign in draft status
func (r *PromoRepository) CreateCampaign(ctx context.Context, req *models.CreateCampaignRequest) (*models.PromoCampaign, error) {
	log.Printf("🔥 CreateCampaign: name=%s", req.Name)

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, &ValidationError{Field: "endTime", Reason: "must be after startTime"}
	}

	query := `
		INSERT INTO promo_campaigns (name, status, start_time, end_time)
		VALUES ($1, 'draft', $2, $3)
		RETURNING id, name, status, start_time, end_time, created_at
	`

	var campaign models.PromoCampaign
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(req.Name), req.StartTime, req.EndTime).Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.Status,
		&campaign.StartTime,
		&campaign.EndTime,
		&campaign.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ CreateCampaign: Error creating campaign: %v", err)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	log.Printf("✅ CreateCampaign: Successfully created campaign id=%d", campaign.ID)
	return &campaign, nil
}

// SetCampaignStatus writes the campaign status. The status writer is the
// admin/scheduling path; purchases re-check both status and the time
// window, so flipping status here can never by itself oversell.
func (r *PromoRepository) SetCampaignStatus(ctx context.Context, campaignID int64, status string) error {
	log.Printf("🔥 SetCampaignStatus: campaign_id=%d, status=%s", campaignID, status)

	if status != models.CampaignStatusDraft && status != models.CampaignStatusActive && status != models.CampaignStatusEnded {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	result, err := r.db.ExecContext(ctx, `UPDATE promo_campaigns SET status = $1 WHERE id = $2`, status, campaignID)
	if err != nil {
		log.Printf("❌ SetCampaignStatus: Error updating status: %v", err)
		return fmt.Errorf("failed to update campaign status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update row count: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	log.Printf("✅ SetCampaignStatus: campaign_id=%d is now %s", campaignID, status)
	return nil
}

// ReplaceOffers atomically replaces the entire offer set of a campaign.
// All-or-nothing: any failure leaves the prior set intact.
func (r *PromoRepository) ReplaceOffers(ctx context.Context, campaignID int64, offers []models.ReplaceOfferEntry) (*models.ReplaceOffersResponse, error) {
	log.Printf("🔥 ReplaceOffers: campaign_id=%d, offers=%d", campaignID, len(offers))

	for _, o := range offers {
		if o.PromoPrice < 0 {
			return nil, &ValidationError{Field: "promoPrice", Reason: "cannot be negative"}
		}
		if o.StockLimit < 0 {
			return nil, &ValidationError{Field: "stockLimit", Reason: "cannot be negative"}
		}
		if o.MaxPerCustomer <= 0 {
			return nil, &ValidationError{Field: "maxPerCustomer", Reason: "must be greater than 0"}
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ ReplaceOffers: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the campaign row so concurrent replacements serialize
	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM promo_campaigns WHERE id = $1 FOR UPDATE`, campaignID).Scan(&lockedID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ ReplaceOffers: Campaign not found: id=%d", campaignID)
			return nil, ErrNotFound
		}
		log.Printf("❌ ReplaceOffers: Error fetching campaign: %v", err)
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}

	// Offers with recorded purchases are audit-bearing: the ledger keys
	// into them, so the set is frozen once anything has sold
	var purchaseCount int64
	queryPurchases := `
		SELECT COUNT(*)
		FROM promo_purchases pp
		JOIN promo_offers o ON o.id = pp.offer_id
		WHERE o.campaign_id = $1
	`
	if err := tx.QueryRowContext(ctx, queryPurchases, campaignID).Scan(&purchaseCount); err != nil {
		log.Printf("❌ ReplaceOffers: Error counting purchases: %v", err)
		return nil, fmt.Errorf("failed to count purchases: %w", err)
	}
	if purchaseCount > 0 {
		log.Printf("❌ ReplaceOffers: Campaign %d has %d recorded purchases", campaignID, purchaseCount)
		return nil, &ValidationError{Field: "campaignId", Reason: "offers with recorded purchases cannot be replaced"}
	}

	// Every offered product must exist
	if len(offers) > 0 {
		placeholders := make([]string, len(offers))
		args := make([]interface{}, len(offers))
		for i, o := range offers {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = o.ProductID
		}

		var found int64
		queryProducts := fmt.Sprintf(`SELECT COUNT(DISTINCT id) FROM products WHERE id IN (%s)`, strings.Join(placeholders, ", "))
		if err := tx.QueryRowContext(ctx, queryProducts, args...).Scan(&found); err != nil {
			log.Printf("❌ ReplaceOffers: Error checking products: %v", err)
			return nil, fmt.Errorf("failed to check products: %w", err)
		}

		distinct := make(map[int64]bool)
		for _, o := range offers {
			distinct[o.ProductID] = true
		}
		if found != int64(len(distinct)) {
			log.Printf("❌ ReplaceOffers: Unknown product in offers (found %d of %d)", found, len(distinct))
			return nil, &ValidationError{Field: "productId", Reason: "references a product that does not exist"}
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM promo_offers WHERE campaign_id = $1`, campaignID)
	if err != nil {
		log.Printf("❌ ReplaceOffers: Error deleting old offers: %v", err)
		return nil, fmt.Errorf("failed to delete old offers: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete row count: %w", err)
	}

	if len(offers) > 0 {
		values := make([]string, len(offers))
		args := make([]interface{}, 0, len(offers)*4+1)
		args = append(args, campaignID)
		argIndex := 2
		for i, o := range offers {
			values[i] = fmt.Sprintf("($1, $%d, $%d, $%d, $%d)", argIndex, argIndex+1, argIndex+2, argIndex+3)
			args = append(args, o.ProductID, o.PromoPrice, o.StockLimit, o.MaxPerCustomer)
			argIndex += 4
		}

		queryInsert := `INSERT INTO promo_offers (campaign_id, product_id, promo_price, stock_limit, max_per_customer) VALUES ` + strings.Join(values, ", ")
		if _, err := tx.ExecContext(ctx, queryInsert, args...); err != nil {
			log.Printf("❌ ReplaceOffers: Error inserting offers: %v", err)
			return nil, fmt.Errorf("failed to insert offers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ ReplaceOffers: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ ReplaceOffers: campaign_id=%d, removed=%d, added=%d", campaignID, removed, len(offers))
	return &models.ReplaceOffersResponse{
		RemovedCount: removed,
		AddedCount:   int64(len(offers)),
	}, nil
}

// ListOffers retrieves a campaign's offers with remaining stock
func (r *PromoRepository) ListOffers(ctx context.Context, campaignID int64) ([]models.PromoOffer, error) {
	query := `
		SELECT id, campaign_id, product_id, promo_price, stock_limit, max_per_customer, sold_count
		FROM promo_offers
		WHERE campaign_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		log.Printf("❌ ListOffers: Error fetching offers: %v", err)
		return nil, fmt.Errorf("failed to fetch offers: %w", err)
	}
	defer rows.Close()

	var offers []models.PromoOffer
	for rows.Next() {
		var o models.PromoOffer
		err := rows.Scan(
			&o.ID,
			&o.CampaignID,
			&o.ProductID,
			&o.PromoPrice,
			&o.StockLimit,
			&o.MaxPerCustomer,
			&o.SoldCount,
		)
		if err != nil {
			log.Printf("❌ ListOffers: Error scanning offer: %v", err)
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		o.Remaining = o.StockLimit - o.SoldCount
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ ListOffers: Error iterating offers: %v", err)
		return nil, fmt.Errorf("failed to iterate offers: %w", err)
	}

	return offers, nil
}

// GetOffer retrieves one offer together with its product name
func (r *PromoRepository) GetOffer(ctx context.Context, offerID int64) (*models.PromoOffer, string, error) {
	query := `
		SELECT o.id, o.campaign_id, o.product_id, o.promo_price, o.stock_limit,
		       o.max_per_customer, o.sold_count, p.name
		FROM promo_offers o
		JOIN products p ON p.id = o.product_id
		WHERE o.id = $1
	`

	var o models.PromoOffer
	var productName string
	err := r.db.QueryRowContext(ctx, query, offerID).Scan(
		&o.ID,
		&o.CampaignID,
		&o.ProductID,
		&o.PromoPrice,
		&o.StockLimit,
		&o.MaxPerCustomer,
		&o.SoldCount,
		&productName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", ErrNotFound
		}
		log.Printf("❌ GetOffer: Error fetching offer: %v", err)
		return nil, "", fmt.Errorf("failed to fetch offer: %w", err)
	}
	o.Remaining = o.StockLimit - o.SoldCount

	return &o, productName, nil
}

// Purchase attempts to buy quantity units of an offer for one customer.
//
// The stock cap is enforced by a single guarded conditional update whose
// WHERE clause encodes the capacity check, so two racing purchases can
// never both pass a stale read of sold_count. Zero rows affected means the
// offer is sold out at this instant — losing the race and being sold out
// are deliberately indistinguishable. The per-customer cap is verified
// against the ledger inside the same transaction; exceeding it rolls the
// sold_count increment back.
func (r *PromoRepository) Purchase(ctx context.Context, offerID int64, customerPhone string, quantity int64) (*models.PurchaseResult, error) {
	log.Printf("🔥 Purchase: offer_id=%d, customer=%s, quantity=%d", offerID, customerPhone, quantity)

	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if strings.TrimSpace(customerPhone) == "" {
		return nil, &ValidationError{Field: "customerPhone", Reason: "cannot be empty"}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ Purchase: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Read the offer with its campaign. Status and the time window are
	// independent fields changed by different admin paths; a purchase
	// requires both to agree.
	var soldCount, stockLimit, maxPerCustomer int64
	var campaignStatus string
	var startTime, endTime time.Time
	queryOffer := `
		SELECT o.sold_count, o.stock_limit, o.max_per_customer,
		       c.status, c.start_time, c.end_time
		FROM promo_offers o
		JOIN promo_campaigns c ON c.id = o.campaign_id
		WHERE o.id = $1
	`
	err = tx.QueryRowContext(ctx, queryOffer, offerID).Scan(
		&soldCount, &stockLimit, &maxPerCustomer,
		&campaignStatus, &startTime, &endTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ Purchase: Offer not found: id=%d", offerID)
			return nil, ErrNotFound
		}
		log.Printf("❌ Purchase: Error fetching offer: %v", err)
		return nil, fmt.Errorf("failed to fetch offer: %w", err)
	}

	now := time.Now()
	if campaignStatus != models.CampaignStatusActive || now.Before(startTime) || !now.Before(endTime) {
		log.Printf("🚫 Purchase: Campaign not active: status=%s, window=[%s, %s)", campaignStatus, startTime, endTime)
		return &models.PurchaseResult{Status: models.PurchaseNotActive, SoldCount: soldCount}, nil
	}

	// Guarded conditional update: the capacity check lives in the WHERE
	// clause, making check-and-increment one atomic statement.
	var newSoldCount int64
	queryGuarded := `
		UPDATE promo_offers
		SET sold_count = sold_count + $1
		WHERE id = $2 AND sold_count + $1 <= stock_limit
		RETURNING sold_count
	`
	err = tx.QueryRowContext(ctx, queryGuarded, quantity, offerID).Scan(&newSoldCount)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("🚫 Purchase: Sold out: offer_id=%d, sold=%d, limit=%d", offerID, soldCount, stockLimit)
			return &models.PurchaseResult{Status: models.PurchaseSoldOut, SoldCount: soldCount}, nil
		}
		log.Printf("❌ Purchase: Error on guarded update: %v", err)
		return nil, fmt.Errorf("failed to increment sold_count: %w", err)
	}

	// Per-customer cap: cumulative ledger quantity plus this request.
	// Refund rows are negative and correctly reduce the sum.
	var alreadyPurchased int64
	queryLedger := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM promo_purchases
		WHERE offer_id = $1 AND customer_phone = $2
	`
	if err := tx.QueryRowContext(ctx, queryLedger, offerID, customerPhone).Scan(&alreadyPurchased); err != nil {
		log.Printf("❌ Purchase: Error summing customer ledger: %v", err)
		return nil, fmt.Errorf("failed to sum customer purchases: %w", err)
	}

	if alreadyPurchased+quantity > maxPerCustomer {
		// Roll back the sold_count increment along with everything else
		log.Printf("🚫 Purchase: Per-customer limit reached: customer=%s, purchased=%d, requested=%d, max=%d",
			customerPhone, alreadyPurchased, quantity, maxPerCustomer)
		return &models.PurchaseResult{Status: models.PurchaseLimitReached, SoldCount: soldCount}, nil
	}

	queryLedgerInsert := `
		INSERT INTO promo_purchases (offer_id, customer_phone, quantity, idempotency_key)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, queryLedgerInsert, offerID, customerPhone, quantity, uuid.New()); err != nil {
		log.Printf("❌ Purchase: Error appending ledger row: %v", err)
		return nil, fmt.Errorf("failed to append purchase ledger row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ Purchase: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Purchase: offer_id=%d, customer=%s, sold_count=%d", offerID, customerPhone, newSoldCount)
	return &models.PurchaseResult{Status: models.PurchaseOK, SoldCount: newSoldCount}, nil
}

// Refund reverses a purchase by appending a negative-quantity ledger row
// and decrementing sold_count under the same kind of guard the purchase
// used. The original row is never deleted; the ledger is the audit trail.
func (r *PromoRepository) Refund(ctx context.Context, purchaseID int64) (*models.PurchaseResult, error) {
	log.Printf("🔥 Refund: purchase_id=%d", purchaseID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ Refund: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var offerID, quantity int64
	var customerPhone string
	queryPurchase := `SELECT offer_id, customer_phone, quantity FROM promo_purchases WHERE id = $1`
	err = tx.QueryRowContext(ctx, queryPurchase, purchaseID).Scan(&offerID, &customerPhone, &quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ Refund: Purchase not found: id=%d", purchaseID)
			return nil, ErrNotFound
		}
		log.Printf("❌ Refund: Error fetching purchase: %v", err)
		return nil, fmt.Errorf("failed to fetch purchase: %w", err)
	}

	if quantity <= 0 {
		log.Printf("❌ Refund: Cannot refund a refund row: id=%d", purchaseID)
		return nil, &ValidationError{Field: "purchaseId", Reason: "refers to a refund row"}
	}

	var newSoldCount int64
	queryGuarded := `
		UPDATE promo_offers
		SET sold_count = sold_count - $1
		WHERE id = $2 AND sold_count - $1 >= 0
		RETURNING sold_count
	`
	err = tx.QueryRowContext(ctx, queryGuarded, quantity, offerID).Scan(&newSoldCount)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("❌ Refund: sold_count would go negative: offer_id=%d, quantity=%d", offerID, quantity)
			return nil, &ConsistencyError{Entity: "promo_offer", EntityID: offerID, Detail: fmt.Sprintf("refund of %d would make sold_count negative", quantity)}
		}
		log.Printf("❌ Refund: Error on guarded update: %v", err)
		return nil, fmt.Errorf("failed to decrement sold_count: %w", err)
	}

	queryLedgerInsert := `
		INSERT INTO promo_purchases (offer_id, customer_phone, quantity, idempotency_key)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, queryLedgerInsert, offerID, customerPhone, -quantity, uuid.New()); err != nil {
		log.Printf("❌ Refund: Error appending refund ledger row: %v", err)
		return nil, fmt.Errorf("failed to append refund ledger row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("❌ Refund: Error committing transaction: %v", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Refund: purchase_id=%d, offer_id=%d, sold_count=%d", purchaseID, offerID, newSoldCount)
	return &models.PurchaseResult{Status: models.PurchaseOK, SoldCount: newSoldCount}, nil
}

// GetCustomerPurchases retrieves one customer's ledger rows for an offer,
// newest first. Includes refund rows (negative quantity).
func (r *PromoRepository) GetCustomerPurchases(ctx context.Context, offerID int64, customerPhone string) ([]models.PromoPurchase, error) {
	query := `
		SELECT id, offer_id, customer_phone, quantity, purchased_at
		FROM promo_purchases
		WHERE offer_id = $1 AND customer_phone = $2
		ORDER BY purchased_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, offerID, customerPhone)
	if err != nil {
		log.Printf("❌ GetCustomerPurchases: Error fetching ledger: %v", err)
		return nil, fmt.Errorf("failed to fetch purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.PromoPurchase
	for rows.Next() {
		var p models.PromoPurchase
		err := rows.Scan(&p.ID, &p.OfferID, &p.CustomerPhone, &p.Quantity, &p.PurchasedAt)
		if err != nil {
			log.Printf("❌ GetCustomerPurchases: Error scanning row: %v", err)
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		log.Printf("❌ GetCustomerPurchases: Error iterating rows: %v", err)
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	return purchases, nil
}
