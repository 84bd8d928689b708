package dto

// ── アプリ設定モジュール DTO ──

// UpdateSettingRequest 設定値更新リクエスト
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// SettingResponse 設定レスポンス
type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}
