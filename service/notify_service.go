package service

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vongtay-handmade/models"
	"vongtay-handmade/utils"
)

// NotifyService sends Telegram messages to the shop owner. Notifications
// are best-effort: a delivery failure never fails the operation that
// triggered it.
type NotifyService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifyService creates a new NotifyService
func NewNotifyService(botToken string, chatID int64) (*NotifyService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Printf("✅ NotifyService: Authorized as @%s", bot.Self.UserName)
	return &NotifyService{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Ensure NotifyService implements NotifyServiceInterface
var _ NotifyServiceInterface = (*NotifyService)(nil)

// NotifySoldOut tells the owner an offer just hit its stock limit
func (s *NotifyService) NotifySoldOut(offer *models.PromoOffer, productName string) error {
	text := fmt.Sprintf(
		"🔥 Hết hàng flash sale!\n%s — đã bán %d/%d (giá %s)",
		productName,
		offer.SoldCount,
		offer.StockLimit,
		utils.FormatVND(offer.PromoPrice),
	)
	return s.send(text)
}

// NotifyReconcileReport summarizes a reconciliation run. Clean runs are
// sent too, as the owner's daily heartbeat.
func (s *NotifyService) NotifyReconcileReport(report *models.ReconcileReport) error {
	if len(report.Deltas) == 0 {
		return s.send(fmt.Sprintf("✅ Đối soát %s: sổ sách khớp, không cần sửa.", report.FinishedAt.Format("02/01")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Đối soát %s: sửa %d giá trị\n", report.FinishedAt.Format("02/01"), len(report.Deltas))
	for _, d := range report.Deltas {
		fmt.Fprintf(&b, "• %s #%d: %s → %s\n", d.Entity, d.EntityID, utils.FormatVND(d.OldValue), utils.FormatVND(d.NewValue))
	}
	return s.send(b.String())
}

func (s *NotifyService) send(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		log.Printf("❌ NotifyService: Error sending message: %v", err)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
