package service

import (
	"context"
	"fmt"

	"easycare-booking-api/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers messages through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(cfg config.MailConfig) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail("EasyCare", cfg.SenderEmail),
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SendBatch pushes the whole batch through in order and fails fast on the
// first provider rejection. Each message carries its own body, so the batch
// cannot be collapsed into a single multi-personalization request.
func (s *SendGridSender) SendBatch(ctx context.Context, msgs []Message) error {
	for i, msg := range msgs {
		if err := s.Send(ctx, msg); err != nil {
			return fmt.Errorf("batch failed at message %d/%d: %w", i+1, len(msgs), err)
		}
	}
	return nil
}
