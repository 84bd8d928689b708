package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// PowerAutomateSender Power Automate フロー経由で Teams チャンネルに通知する
// フロー側がペイロードをアダプティブカードに展開してチャンネルへ投稿する。
type PowerAutomateSender struct {
	flowURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewPowerAutomateSender PowerAutomateSender を生成する
func NewPowerAutomateSender(flowURL string, client *http.Client, logger *zap.Logger) *PowerAutomateSender {
	if client == nil {
		client = &http.Client{Timeout: sendTimeout}
	}
	return &PowerAutomateSender{flowURL: flowURL, client: client, logger: logger}
}

// powerAutomatePayload フロー側が期待するフラットな JSON 形式
type powerAutomatePayload struct {
	NotificationType Kind     `json:"notificationType"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	ProjectName      string   `json:"projectName"`
	PersonName       string   `json:"personName"`
	Email            string   `json:"email"`
	Datetime         string   `json:"datetime"`
	Color            string   `json:"color"`
	SystemURL        string   `json:"systemUrl"`
	ActionText       string   `json:"actionText"`
	MentionUsers     []string `json:"mentionUsers"`
	MentionUserNames []string `json:"mentionUserNames"`
}

// flowResult フローからの応答（{success, error} 形式を返す実装がある）
type flowResult struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Send 通知をフローへ POST する
func (s *PowerAutomateSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	payload := powerAutomatePayload{
		NotificationType: msg.Kind,
		Title:            msg.Title,
		Subtitle:         msg.Subtitle,
		ProjectName:      msg.ProjectName,
		PersonName:       msg.PersonName,
		Email:            msg.Recipient,
		Datetime:         msg.Datetime,
		Color:            msg.Color,
		SystemURL:        msg.SystemURL,
		ActionText:       msg.ActionText,
		MentionUsers:     []string{},
		MentionUserNames: []string{},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Transport: "powerautomate", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.flowURL, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Transport: "powerautomate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Transport: "powerautomate", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Transport: "powerautomate", Status: resp.StatusCode, Body: string(respBody)}
	}

	// 2xx でも本文に success=false を返すフローがある
	var result flowResult
	if err := json.Unmarshal(respBody, &result); err == nil && result.Success != nil && !*result.Success {
		return &TransportError{Transport: "powerautomate", Status: resp.StatusCode, Body: result.Error}
	}

	s.logger.Info("Power Automate 通知を送信しました",
		zap.String("kind", string(msg.Kind)),
		zap.String("project", msg.ProjectName),
		zap.String("recipient", msg.Recipient),
	)

	return nil
}
