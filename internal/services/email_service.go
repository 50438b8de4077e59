package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendWelcomeEmail(email, firstName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationCode(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Код подтверждения ZhasQoldau")

	body := fmt.Sprintf(`
		<h3>Подтверждение входа</h3>
		<p>Ваш код подтверждения: <strong>%s</strong></p>
		<p>Код действует несколько минут и используется один раз.</p>
		<p>Если вы не запрашивали код — проигнорируйте это письмо.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	return nil
}

func (s *emailService) SendWelcomeEmail(email, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Добро пожаловать в ZhasQoldau!")

	body := fmt.Sprintf(`
		<h2>Добро пожаловать, %s!</h2>
		<p>Ваша заявка принята, учётная запись создана.</p>
		<p>Теперь вам доступен каталог льгот и кошелёк программы.</p>
		<p>Команда ZhasQoldau</p>
	`, firstName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}
