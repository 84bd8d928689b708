package dto

// ── 担当者モジュール DTO ──

// CreateUserRequest 担当者登録リクエスト
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Email    string `json:"email"    binding:"required,email,max=255"`
}

// UpdateUserRequest 担当者更新リクエスト（部分更新）
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email,max=255"`
}

// UserResponse 担当者レスポンス
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
