package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/service"
	"sales-estimation/backend/pkg/response"
)

// RequestHandler 積算依頼モジュール HTTP ハンドラ
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler RequestHandler を生成する
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Create 積算依頼を新規登録する
// POST /api/v1/requests
// 永続化が成功すれば通知送信が失敗しても 201 を返し、warnings に失敗内容を含める。
func (h *RequestHandler) Create(c *gin.Context) {
	var form dto.EstimationRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, 10001, "パラメータが不正です")
		return
	}

	result, warnings, err := h.requestSvc.Create(c.Request.Context(), &form)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.CreatedWithWarnings(c, result, warnings)
}

// Update 積算依頼を更新する
// PUT /api/v1/requests/:id
func (h *RequestHandler) Update(c *gin.Context) {
	var form dto.EstimationRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, 10001, "パラメータが不正です")
		return
	}

	result, warnings, err := h.requestSvc.Update(c.Request.Context(), c.Param("id"), &form)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OKWithWarnings(c, result, warnings)
}

// Get 積算依頼を 1 件取得する
// GET /api/v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	result, err := h.requestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// List 積算依頼の一覧を返す（検索・ステータス絞り込み・ページネーション付き）
// GET /api/v1/requests?q=&status=&page=&page_size=
func (h *RequestHandler) List(c *gin.Context) {
	var req dto.ListRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "パラメータが不正です")
		return
	}

	list, total, err := h.requestSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Delete 積算依頼を削除する（連鎖削除なし）
// DELETE /api/v1/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requestSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, nil)
}

// StatusOptions ステータス選択肢を返す
// GET /api/v1/status-options
func (h *RequestHandler) StatusOptions(c *gin.Context) {
	response.OK(c, h.requestSvc.StatusOptions())
}

// handleRequestError 積算依頼モジュールの業務エラーを HTTP に変換する
func (h *RequestHandler) handleRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 11001, "積算依頼が見つかりません")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 11002, "不正なステータスです")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 11003, "日付の形式が不正です（YYYY-MM-DD）")
	default:
		response.InternalError(c)
	}
}
