package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zhasqoldau/internal/models"
)

// TelegramNotifier — сообщение в операционный чат о новой регистрации.
// Необязательная интеграция: без токена/чата просто молчит.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	if botToken == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) RegistrationCompleted(user *models.User) {
	if n == nil || n.bot == nil || n.chatID == 0 {
		return
	}
	text := fmt.Sprintf("Новая регистрация: %s %s (%s), район: %s",
		user.LastName, user.FirstName, maskIIN(user.IIN), user.District)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("[tg][notify] send failed: user_id=%d err=%v", user.ID, err)
	}
}

// maskIIN — в чат уходит только хвост номера.
func maskIIN(iin string) string {
	if len(iin) < 4 {
		return "****"
	}
	return "********" + iin[len(iin)-4:]
}
