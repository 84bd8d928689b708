package notify

import (
	"fmt"
	"strings"
)

// ValidationError 送信前の必須フィールド欠落
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("通知の必須フィールドが不足しています: %s", strings.Join(e.Missing, ", "))
}

// TransportError 送信先への配信失敗
// 診断のため送信先とレスポンスボディを保持する。
type TransportError struct {
	Transport string // "email" | "teams" | "powerautomate"
	Status    int    // HTTP ステータス（接続失敗時は 0）
	Body      string // 上流のレスポンスボディ（あれば）
	Err       error  // 下位エラー（あれば）
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("通知送信に失敗 (%s): %v", e.Transport, e.Err)
	case e.Body != "":
		return fmt.Sprintf("通知送信に失敗 (%s): HTTP %d - %s", e.Transport, e.Status, e.Body)
	default:
		return fmt.Sprintf("通知送信に失敗 (%s): HTTP %d", e.Transport, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
