package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"sales-estimation/backend/config"
)

// EmailSender 宛先アドレスへ SMTP で直接メールを送る
type EmailSender struct {
	cfg    *config.SMTPConfig
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
	logger *zap.Logger
}

// NewEmailSender EmailSender を生成する
func NewEmailSender(cfg *config.SMTPConfig, logger *zap.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, send: smtp.SendMail, logger: logger}
}

// Send 通知をテキストメールとして送信する
func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	// net/smtp はコンテキスト非対応のため、中断要求だけ先に確認する
	select {
	case <-ctx.Done():
		return &TransportError{Transport: "email", Err: ctx.Err()}
	default:
	}

	subject := mime.QEncoding.Encode("UTF-8", msg.Title)

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&body, "Subject: %s\r\n", subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	fmt.Fprintf(&body, "%s\r\n\r\n", msg.Subtitle)
	fmt.Fprintf(&body, "案件名: %s\r\n", msg.ProjectName)
	fmt.Fprintf(&body, "担当者: %s\r\n", msg.PersonName)
	fmt.Fprintf(&body, "日時: %s\r\n", msg.Datetime)
	fmt.Fprintf(&body, "\r\n%s: %s\r\n", msg.ActionText, msg.SystemURL)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.From, []string{msg.Recipient}, []byte(body.String())); err != nil {
		return &TransportError{Transport: "email", Err: err}
	}

	s.logger.Info("メール通知を送信しました",
		zap.String("kind", string(msg.Kind)),
		zap.String("project", msg.ProjectName),
		zap.String("recipient", msg.Recipient),
	)

	return nil
}
