package services

import (
	"context"
	"fmt"

	"zhasqoldau/internal/models"
	"zhasqoldau/internal/utils"
)

// CodeSender — канал доставки кода подтверждения. Контекст ограничивает
// время доставки; по таймауту отправка считается неуспешной.
type CodeSender interface {
	SendCode(ctx context.Context, user *models.User, code string) error
}

// SMSSender — доставка через Mobizon.
type SMSSender struct {
	Client *utils.Client
}

func NewSMSSender(client *utils.Client) *SMSSender {
	return &SMSSender{Client: client}
}

func (s *SMSSender) SendCode(ctx context.Context, user *models.User, code string) error {
	text := fmt.Sprintf("Код подтверждения: %s", code)
	if _, err := s.Client.SendSMS(ctx, user.Phone, text); err != nil {
		return fmt.Errorf("mobizon error: %w", err)
	}
	return nil
}

// EmailSender — доставка кода на email (резервный канал, otp.channel=email).
type EmailSender struct {
	Email EmailService
}

func NewEmailSender(email EmailService) *EmailSender {
	return &EmailSender{Email: email}
}

func (s *EmailSender) SendCode(ctx context.Context, user *models.User, code string) error {
	// gomail не умеет контексты, поэтому ждём в select
	done := make(chan error, 1)
	go func() {
		done <- s.Email.SendVerificationCode(user.Email, code)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("email delivery: %w", ctx.Err())
	}
}
