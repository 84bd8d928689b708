package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sales-estimation/backend/config"
)

func newTestEmailSender(send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error) *EmailSender {
	sender := NewEmailSender(&config.SMTPConfig{
		Host: "smtp.example.co.jp",
		Port: 587,
		From: "noreply@example.co.jp",
	}, zap.NewNop())
	sender.send = send
	return sender
}

func TestEmailSender_Send_Success(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody string

	sender := newTestEmailSender(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotBody = string(msg)
		return nil
	})

	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send は成功するはず: %v", err)
	}

	if gotAddr != "smtp.example.co.jp:587" {
		t.Errorf("期待 addr=smtp.example.co.jp:587、実際=%s", gotAddr)
	}
	if gotFrom != "noreply@example.co.jp" {
		t.Errorf("期待 from=noreply@example.co.jp、実際=%s", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "sato@example.co.jp" {
		t.Errorf("期待 to=[sato@example.co.jp]、実際=%v", gotTo)
	}
	// 件名は Q エンコード、本文に案件名が含まれる
	if !strings.Contains(gotBody, "Subject: =?UTF-8?") {
		t.Error("件名は MIME Q エンコードされるはず")
	}
	if !strings.Contains(gotBody, "案件名: 新社屋空調設備工事") {
		t.Error("本文に案件名が含まれるはず")
	}
}

func TestEmailSender_Send_SMTPFailure(t *testing.T) {
	sender := newTestEmailSender(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	})

	err := sender.Send(context.Background(), testMessage())
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("期待 *TransportError、実際: %v", err)
	}
	if tErr.Transport != "email" {
		t.Errorf("期待 Transport=email、実際=%s", tErr.Transport)
	}
}

func TestEmailSender_Send_CancelledContext(t *testing.T) {
	called := false
	sender := newTestEmailSender(func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, testMessage())
	if err == nil {
		t.Fatal("キャンセル済みコンテキストではエラーになるはず")
	}
	if called {
		t.Error("キャンセル後は SMTP 送信を行わないはず")
	}
}
