package notify

import "time"

// SystemName 通知の差出元として表示するシステム名
const SystemName = "営業積算支援システム"

// Kind 通知種別
type Kind string

const (
	// KindAssignment 積算担当の割り当て通知
	KindAssignment Kind = "assignment"
	// KindCompletion 積算完了通知
	KindCompletion Kind = "completion"
)

// Message 通知ペイロード
// どのトランスポートでも同じ形を使い、送信形式への変換は各実装が行う。
type Message struct {
	Kind        Kind   `json:"notificationType"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ProjectName string `json:"projectName"`
	PersonName  string `json:"personName"`
	Recipient   string `json:"email"`
	Datetime    string `json:"datetime"`
	Color       string `json:"color"` // good (緑) / attention (黄) / warning (赤)
	SystemURL   string `json:"systemUrl"`
	ActionText  string `json:"actionText"`
}

// Composer 通知メッセージの組み立て
// 副作用を持たない。時刻だけは now から注入する（テスト時に固定可能）。
type Composer struct {
	systemURL string
	now       func() time.Time
}

// NewComposer Composer を生成する。now が nil の場合は time.Now を使う。
func NewComposer(systemURL string, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{systemURL: systemURL, now: now}
}

// Compose 種別・案件名・担当者名・宛先から通知ペイロードを組み立てる
func (c *Composer) Compose(kind Kind, projectName, personName, recipient string) Message {
	msg := Message{
		Kind:        kind,
		Subtitle:    SystemName + "からの自動通知",
		ProjectName: projectName,
		PersonName:  personName,
		Recipient:   recipient,
		Datetime:    c.now().Format("2006/01/02 15:04:05"),
		Color:       "good",
		SystemURL:   c.systemURL,
	}

	switch kind {
	case KindAssignment:
		msg.Title = "🎯 新しい積算依頼が割り当てられました"
		msg.ActionText = "システムにログイン"
	case KindCompletion:
		msg.Title = "✅ 積算依頼が完了しました"
		msg.ActionText = "結果を確認"
	}

	return msg
}

// Validate 必須フィールドの欠落を検証する
// 欠落があれば *ValidationError を返す。
func (m Message) Validate() error {
	var missing []string
	if m.Kind != KindAssignment && m.Kind != KindCompletion {
		missing = append(missing, "kind")
	}
	if m.Recipient == "" {
		missing = append(missing, "recipient")
	}
	if m.ProjectName == "" {
		missing = append(missing, "projectName")
	}
	if m.PersonName == "" {
		missing = append(missing, "personName")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
