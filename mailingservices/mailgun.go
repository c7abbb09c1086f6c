package mailingservices

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init() {
	domain := os.Getenv("MG_DOMAIN")
	apiKey := os.Getenv("MG_PUBLIC_API_KEY")
	m.Client = mailgun.NewMailgun(domain, apiKey)
	m.From = os.Getenv("EMAIL_FROM")
	if m.From == "" {
		m.From = fmt.Sprintf("RoadGuard <no-reply@%s>", domain)
	}
}

// SendResetPassword mails the password-reset link to the user.
func (m *Mailgun) SendResetPassword(recipient, resetLink string) (string, error) {
	subject := "Reset your RoadGuard password"
	body := fmt.Sprintf("Someone requested a password reset for your account.\n\nFollow this link to choose a new password:\n%s\n\nIf this wasn't you, you can ignore this email.", resetLink)

	message := m.Client.NewMessage(m.From, subject, body, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}
