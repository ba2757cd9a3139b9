package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type EmailService interface {
	SendEmail(ctx context.Context, req EmailRequest) error
	SendPublishNotice(ctx context.Context, recipients []string, data PublishNoticeData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	auth     smtp.Auth
}

// NewSMTPEmailService builds the SMTP sender. Empty username means an
// unauthenticated relay (mailhog in dev).
func NewSMTPEmailService(host, port, username, password, from string) EmailService {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	if from == "" {
		from = "noreply@newsroom.dev"
	}
	return &smtpEmailService{
		smtpAddr: host + ":" + port,
		smtpFrom: from,
		auth:     auth,
	}
}

func (s *smtpEmailService) SendPublishNotice(ctx context.Context, recipients []string, data PublishNoticeData) error {
	if len(recipients) == 0 {
		return nil
	}
	return s.SendEmail(ctx, EmailRequest{
		To:      recipients,
		Subject: fmt.Sprintf("[Published] %s", data.Title),
		Body:    publishNoticeBody(data),
	})
}

func (s *smtpEmailService) SendEmail(ctx context.Context, req EmailRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.smtpFrom, req)

	// Gửi email qua SMTP
	if err := smtp.SendMail(s.smtpAddr, s.auth, s.smtpFrom, req.To, msg); err != nil {
		log.Warn().
			Err(err).
			Strs("to", req.To).
			Str("smtp_addr", s.smtpAddr).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func buildMessage(from string, req EmailRequest) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, strings.Join(req.To, ", "), req.Subject, req.Body))
}

func publishNoticeBody(data PublishNoticeData) string {
	published := "now"
	if data.PublishedDate != nil {
		published = data.PublishedDate.UTC().Format(time.RFC1123)
	}
	return fmt.Sprintf(`A %s was published.

Title: %s
Slug: %s
Published: %s
ID: %s
Published by: %s
`, data.Type, data.Title, data.Slug, published, data.ArticleID, data.PublishedBy)
}
