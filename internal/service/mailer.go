//go:generate mockery --name Mailer --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"
)

// Mailer はトランザクションメールの送信口。呼び出し側は結果を待たずに使う。
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// --- LogMailer ---
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	logger := middleware.GetLogger(ctx)
	// 本文にはリンク (トークン) が含まれるため debug のときだけ出す
	logger.Info("--- Sending Email (LogMailer) ---", "to", to, "subject", subject)
	logger.Debug("Email body (LogMailer)", "text", textBody)
	return nil
}

// --- SmtpMailer ---
type SmtpMailer struct {
	cfg *config.SMTPConfig
}

func (m *SmtpMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	logger := middleware.GetLogger(ctx)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	logger.Debug("Attempting to send email via SMTP",
		"smtp_addr", addr,
		"from", m.cfg.From,
		"to", to,
	)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		logger.Error("Failed to connect to SMTP server", "error", err, "addr", addr)
		return err
	}
	// 応答しないサーバーで送信ゴルーチンが残らないよう ctx の期限を接続にも効かせる
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		logger.Error("Failed to start SMTP session", "error", err, "addr", addr)
		return err
	}
	defer c.Close()

	if err = c.Mail(m.cfg.From); err != nil {
		logger.Error("Failed to set MAIL FROM", "error", err, "from", m.cfg.From)
		return err
	}
	if err = c.Rcpt(to); err != nil {
		logger.Error("Failed to set RCPT TO", "error", err, "to", to)
		return err
	}

	wc, err := c.Data()
	if err != nil {
		logger.Error("Failed to open data writer", "error", err)
		return err
	}

	msg, err := buildMultipartMessage(m.cfg.From, to, subject, htmlBody, textBody)
	if err != nil {
		wc.Close()
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		wc.Close()
		logger.Error("Failed to write email data", "error", err)
		return err
	}
	if err = wc.Close(); err != nil {
		logger.Error("Failed to finish email data", "error", err)
		return err
	}

	logger.Info("Email sent successfully via SMTP", "to", to, "subject", subject)
	return c.Quit()
}

// buildMultipartMessage は text/plain と text/html を持つ multipart/alternative のメッセージを組み立てる
func buildMultipartMessage(from, to, subject, htmlBody, textBody string) ([]byte, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	boundary := "bnd_" + hex.EncodeToString(b)

	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n")
	sb.WriteString("\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(textBody + "\r\n")

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString("--" + boundary + "--\r\n")
	return []byte(sb.String()), nil
}

// --- NewMailer ファクトリ関数 ---
func NewMailer(cfg *config.Config) Mailer {
	logger := slog.Default()
	switch cfg.Mailer.Type {
	case "smtp":
		logger.Info("Initializing SMTP mailer...")
		return &SmtpMailer{cfg: &cfg.SMTP}
	case "ses":
		logger.Info("Initializing SES mailer...")
		return NewSESMailer(cfg)
	case "sendgrid":
		logger.Info("Initializing SendGrid mailer...")
		return NewSendGridMailer(&cfg.SendGrid)
	case "log":
		logger.Info("Initializing Log mailer...")
		return &LogMailer{}
	default:
		logger.Warn("Unknown mailer type, defaulting to LogMailer", "type", cfg.Mailer.Type)
		return &LogMailer{}
	}
}
