package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// TelegramChannel delivers messaging notifications through a bot.
type TelegramChannel struct {
	bot           *tgbotapi.BotAPI
	defaultChatID int64
}

func NewTelegramChannel(token string, defaultChatID int64) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramChannel{bot: bot, defaultChatID: defaultChatID}, nil
}

func (t *TelegramChannel) Send(ctx context.Context, req models.NotificationRequest) error {
	chatID := t.defaultChatID
	if req.Recipient != "" {
		if id, err := strconv.ParseInt(req.Recipient, 10, 64); err == nil {
			chatID = id
		}
	}
	if chatID == 0 {
		return fmt.Errorf("no telegram chat id for notification")
	}

	msg := tgbotapi.NewMessage(chatID, req.Body)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}
