package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"opsboard/internal/service"
)

// TelegramNotifier pushes the daily digest to a fixed set of chats. It has no
// inbound command surface; the board itself is driven elsewhere.
type TelegramNotifier struct {
	api     *tgbotapi.BotAPI
	digest  *service.DigestService
	chatIDs []int64
}

func NewTelegramNotifier(token string, chatIDs []int64, digest *service.DigestService) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &TelegramNotifier{api: api, digest: digest, chatIDs: chatIDs}, nil
}

// SendDailyDigest builds the digest once and delivers it to every configured
// chat. A failed chat is logged and skipped so the others still get theirs.
func (n *TelegramNotifier) SendDailyDigest(ctx context.Context) error {
	text, err := n.digest.DailyDigest(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	for _, chatID := range n.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.api.Send(msg); err != nil {
			log.Printf("digest to chat %d: %v", chatID, err)
		}
	}
	return nil
}
