package model

// Status 積算依頼のステータス
// DB には英語スラッグで保存し、画面・通知には日本語ラベルを使う。
type Status string

const (
	StatusNotStarted           Status = "not-started"           // 未着手
	StatusAwaitingMaterials    Status = "awaiting-materials"    // 資料待ち
	StatusInProgress           Status = "in-progress"           // 着手中
	StatusUnderReview          Status = "under-review"          // 検討中
	StatusAwaitingQuote        Status = "awaiting-quote"        // 見積もり待
	StatusAwaitingRegistration Status = "awaiting-registration" // ZAC登録待
	StatusCompleted            Status = "completed"             // 完了
	StatusCancelled            Status = "cancelled"             // 中止
)

// statusLabels ステータスの日本語表示ラベル
var statusLabels = map[Status]string{
	StatusNotStarted:           "未着手",
	StatusAwaitingMaterials:    "資料待ち",
	StatusInProgress:           "着手中",
	StatusUnderReview:          "検討中",
	StatusAwaitingQuote:        "見積もり待",
	StatusAwaitingRegistration: "ZAC登録待",
	StatusCompleted:            "完了",
	StatusCancelled:            "中止",
}

// statusOrder 業務フロー上の典型的な順序（厳密な遷移制約ではない）
var statusOrder = []Status{
	StatusNotStarted,
	StatusAwaitingMaterials,
	StatusInProgress,
	StatusUnderReview,
	StatusAwaitingQuote,
	StatusAwaitingRegistration,
	StatusCompleted,
	StatusCancelled,
}

// AllStatuses 全ステータスを業務フロー順で返す
func AllStatuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// IsValid 閉じた集合に含まれるかを判定する
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label 日本語表示ラベルを返す（未知の値はそのまま返す）
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsClosed 完了または中止かどうか
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}
