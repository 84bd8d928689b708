package dto

// ── 認証モジュール DTO ──

// LoginRequest 共有パスワードによるログインリクエスト
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// SessionResponse セッショントークンレスポンス
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // 有効期間（秒）
}

// ChangePasswordRequest 共有パスワード変更リクエスト
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8,max=72"`
}
