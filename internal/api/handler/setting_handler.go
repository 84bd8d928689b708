package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/service"
	"sales-estimation/backend/pkg/response"
)

// SettingHandler アプリ設定モジュール HTTP ハンドラ
type SettingHandler struct {
	settingSvc service.SettingService
}

// NewSettingHandler SettingHandler を生成する
func NewSettingHandler(settingSvc service.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// Get 設定値を取得する
// GET /api/v1/settings/:key
func (h *SettingHandler) Get(c *gin.Context) {
	result, err := h.settingSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, result)
}

// Set 設定値を更新する（無ければ作成）
// PUT /api/v1/settings/:key
func (h *SettingHandler) Set(c *gin.Context) {
	var req dto.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "パラメータが不正です")
		return
	}

	result, err := h.settingSvc.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		h.handleSettingError(c, err)
		return
	}

	response.OK(c, result)
}

// handleSettingError アプリ設定モジュールの業務エラーを HTTP に変換する
func (h *SettingHandler) handleSettingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		response.NotFound(c, 13001, "設定が見つかりません")
	case errors.Is(err, service.ErrSettingProtected):
		response.BadRequest(c, 13002, "この設定キーは直接操作できません")
	default:
		response.InternalError(c)
	}
}
