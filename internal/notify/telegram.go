package notify

import (
	"context"
	"fmt"
	"strings"

	"hygieat/internal/vendor"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts every new stall to the inspection team's chat.
type TelegramNotifier struct {
	api    sender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) NotifyRegistered(ctx context.Context, record *vendor.VendorRecord) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatRegistration(record))
	msg.DisableWebPagePreview = true

	_, err := n.api.Send(msg)
	return err
}

// FormatRegistration renders the plain-text chat message for one record.
func FormatRegistration(record *vendor.VendorRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New stall: %s\n", record.Name)
	fmt.Fprintf(&b, "ID: %s\n", record.ID)
	fmt.Fprintf(&b, "Location: https://maps.google.com/?q=%.6f,%.6f\n", record.Lat, record.Lng)
	fmt.Fprintf(&b, "Banner: %s\n", record.Image)
	if record.Video != nil {
		fmt.Fprintf(&b, "Video: %s\n", *record.Video)
	}
	fmt.Fprintf(&b, "Menu (%d):\n", len(record.Menu))
	for _, item := range record.Menu {
		fmt.Fprintf(&b, "- %s: %s\n", item.Name, item.Price)
	}

	return strings.TrimRight(b.String(), "\n")
}
