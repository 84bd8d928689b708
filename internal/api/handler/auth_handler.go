package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sales-estimation/backend/internal/api/middleware"
	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/service"
	"sales-estimation/backend/pkg/response"
	"sales-estimation/backend/pkg/session"
)

// AuthHandler 認証モジュール HTTP ハンドラ
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler AuthHandler を生成する
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 共有パスワードでログイン
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "パラメータが不正です")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout セッションを失効させてロック状態に戻す
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get(middleware.ContextKeySession)
	if !exists {
		response.Unauthorized(c, 10002, "未認証です")
		return
	}
	claims, ok := v.(*session.Claims)
	if !ok {
		response.Unauthorized(c, 10002, "未認証です")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ChangePassword 共有パスワードを変更する
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "パラメータが不正です")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAuthError 認証モジュールの業務エラーを HTTP に変換する
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPassword):
		response.Unauthorized(c, 14001, "パスワードが正しくありません")
	case errors.Is(err, service.ErrPasswordNotConfigured):
		response.Error(c, 500, 14002, "ログインパスワードが設定されていません")
	default:
		response.InternalError(c)
	}
}
