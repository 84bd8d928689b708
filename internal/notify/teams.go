package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// TeamsSender Teams の Incoming Webhook に MessageCard を直接 POST する
type TeamsSender struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewTeamsSender TeamsSender を生成する
func NewTeamsSender(webhookURL string, client *http.Client, logger *zap.Logger) *TeamsSender {
	if client == nil {
		client = &http.Client{Timeout: sendTimeout}
	}
	return &TeamsSender{webhookURL: webhookURL, client: client, logger: logger}
}

// themeColors MessageCard 用カラーコードへの変換
var themeColors = map[string]string{
	"good":      "2EB886",
	"attention": "FFC107",
	"warning":   "D32F2F",
}

type teamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type teamsSection struct {
	ActivityTitle string      `json:"activityTitle"`
	Facts         []teamsFact `json:"facts"`
	Markdown      bool        `json:"markdown"`
}

type teamsTarget struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

type teamsAction struct {
	Type    string        `json:"@type"`
	Name    string        `json:"name"`
	Targets []teamsTarget `json:"targets"`
}

// teamsCard Office 365 Connector の MessageCard 形式
type teamsCard struct {
	Type            string         `json:"@type"`
	Context         string         `json:"@context"`
	ThemeColor      string         `json:"themeColor"`
	Summary         string         `json:"summary"`
	Title           string         `json:"title"`
	Sections        []teamsSection `json:"sections"`
	PotentialAction []teamsAction  `json:"potentialAction"`
}

// Send 通知を MessageCard に変換して webhook へ POST する
func (s *TeamsSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	color, ok := themeColors[msg.Color]
	if !ok {
		color = themeColors["good"]
	}

	card := teamsCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: color,
		Summary:    msg.Title,
		Title:      msg.Title,
		Sections: []teamsSection{{
			ActivityTitle: msg.Subtitle,
			Facts: []teamsFact{
				{Name: "案件名", Value: msg.ProjectName},
				{Name: "担当者", Value: msg.PersonName},
				{Name: "宛先", Value: msg.Recipient},
				{Name: "日時", Value: msg.Datetime},
			},
			Markdown: true,
		}},
		PotentialAction: []teamsAction{{
			Type:    "OpenUri",
			Name:    msg.ActionText,
			Targets: []teamsTarget{{OS: "default", URI: msg.SystemURL}},
		}},
	}

	body, err := json.Marshal(card)
	if err != nil {
		return &TransportError{Transport: "teams", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Transport: "teams", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Transport: "teams", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Transport: "teams", Status: resp.StatusCode, Body: string(respBody)}
	}

	s.logger.Info("Teams 通知を送信しました",
		zap.String("kind", string(msg.Kind)),
		zap.String("project", msg.ProjectName),
		zap.String("recipient", msg.Recipient),
	)

	return nil
}
