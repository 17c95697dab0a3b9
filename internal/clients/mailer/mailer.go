package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/uni-io/campus-backend/pkg/config"
)

// Client sends account mail over SMTP. It is a side-channel: every send is
// fire-and-forget with logged failures, so a mail outage never rolls back the
// transaction that created the account.
type Client struct {
	cfg       config.Config
	dialer    *gomail.Dialer
	urlPrefix string
}

func New(cfg config.Config) *Client {
	dialer := gomail.NewDialer(cfg.Mailer.Host, cfg.Mailer.Port, cfg.Mailer.Login, cfg.Mailer.Password)

	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Mailer.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &Client{
		cfg:       cfg,
		dialer:    dialer,
		urlPrefix: cfg.URLPrefix,
	}
}

func (c *Client) SendVerificationMail(ctx context.Context, email, token string) {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", c.urlPrefix, token)

	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetAddressHeader("From", c.cfg.Mailer.From, c.cfg.Mailer.FromName)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Verify your email")
	msg.SetBody("text/html", fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email.</p>`, link))

	err := c.dialer.DialAndSend(msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send verification email", "error", err)
		return
	}

	slog.InfoContext(ctx, "verification email sent")
}
