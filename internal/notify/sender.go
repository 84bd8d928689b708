package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sales-estimation/backend/config"
)

// Sender 通知トランスポートの共通インターフェース
// 実装は送信前に Message.Validate を呼び、配信失敗は *TransportError で返す。
// リトライは行わない（呼び出し側が警告として扱う方針）。
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// 送信先 webhook への接続タイムアウト
const sendTimeout = 15 * time.Second

// NewSender 設定に応じたトランスポート実装を生成する
func NewSender(cfg *config.NotifyConfig, logger *zap.Logger) (Sender, error) {
	client := &http.Client{Timeout: sendTimeout}

	switch cfg.Mode {
	case "powerautomate":
		return NewPowerAutomateSender(cfg.PowerAutomateURL, client, logger), nil
	case "teams":
		return NewTeamsSender(cfg.TeamsWebhookURL, client, logger), nil
	case "email":
		return NewEmailSender(&cfg.SMTP, logger), nil
	default:
		return nil, fmt.Errorf("未知の通知モード: %q", cfg.Mode)
	}
}
