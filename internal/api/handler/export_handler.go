package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"sales-estimation/backend/internal/service"
	"sales-estimation/backend/pkg/response"
)

// ExportHandler エクスポートモジュール HTTP ハンドラ
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler ExportHandler を生成する
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRequestsExcel 積算依頼一覧を Excel でダウンロードする
// GET /api/v1/export/requests.xlsx
func (h *ExportHandler) ExportRequestsExcel(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRequestsExcel(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportDeadlinesICS 積算希望日の期限カレンダーを ICS でダウンロードする
// GET /api/v1/export/deadlines.ics
func (h *ExportHandler) ExportDeadlinesICS(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportDeadlinesICS(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "text/calendar; charset=utf-8", buf.Bytes())
}

// handleExportError エクスポートモジュールの業務エラーを HTTP に変換する
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRequests):
		response.NotFound(c, 15001, "エクスポート対象の積算依頼がありません")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, 500, 15002, "エクスポートファイルの生成に失敗しました")
	default:
		response.InternalError(c)
	}
}
