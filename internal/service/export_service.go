package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sales-estimation/backend/internal/repository"
)

// ── エクスポートモジュール業務エラー ──

var (
	ErrExportNoRequests   = errors.New("エクスポート対象の積算依頼がありません")
	ErrExportGenerateFail = errors.New("エクスポートファイルの生成に失敗しました")
)

// 一括エクスポートの上限行数
const exportMaxRows = 10000

// ExportService エクスポートの業務インターフェース
//
// 設計メモ：
//   - 積算依頼一覧を Excel (.xlsx) で出力（画面の表と同じ列構成・日本語見出し）
//   - 未完了依頼の積算希望日を ICS カレンダーとして配信（期限の見落とし防止）
//   - どちらも bytes.Buffer で返し、レスポンスヘッダは Handler 層が設定する
type ExportService interface {
	ExportRequestsExcel(ctx context.Context) (*bytes.Buffer, string, error)
	ExportDeadlinesICS(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService ExportService を生成する
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── Excel エクスポート ──────────────────────

func (s *exportService) ExportRequestsExcel(ctx context.Context) (*bytes.Buffer, string, error) {
	requests, _, err := s.repo.Request.List(ctx, repository.RequestFilter{}, 0, exportMaxRows)
	if err != nil {
		s.logger.Error("積算依頼一覧の取得に失敗", zap.Error(err))
		return nil, "", err
	}
	if len(requests) == 0 {
		return nil, "", ErrExportNoRequests
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "積算依頼一覧"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"依頼日", "案件名", "ZAC案件番号", "営業担当", "積算担当",
		"ステータス", "積算希望日", "完了日", "備考",
	}
	widths := []float64{12, 32, 16, 14, 14, 12, 14, 12, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range requests {
		req := &requests[rowIdx]
		values := []string{
			req.RequestDate.Format(dateLayout),
			req.ProjectName,
			derefOrEmpty(req.ZacProjectNumber),
			derefOrEmpty(req.SalesPerson),
			derefOrEmpty(req.EstimationPerson),
			req.Status.Label(),
			formatOptionalDate(req.DesiredEstimationDate),
			formatOptionalDate(req.CompletionDate),
			derefOrEmpty(req.Remarks),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("Excel の書き込みに失敗", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("estimation_requests_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── ICS エクスポート ──────────────────────

// ExportDeadlinesICS 未完了依頼の積算希望日を終日イベントとして出力する
func (s *exportService) ExportDeadlinesICS(ctx context.Context) (*bytes.Buffer, string, error) {
	requests, err := s.repo.Request.ListOpenWithDeadline(ctx)
	if err != nil {
		s.logger.Error("期限付き積算依頼の取得に失敗", zap.Error(err))
		return nil, "", err
	}
	if len(requests) == 0 {
		return nil, "", ErrExportNoRequests
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//sales-estimation//deadline-feed//JA")

	for i := range requests {
		req := &requests[i]

		event := cal.AddEvent(fmt.Sprintf("request-%s@sales-estimation", req.RequestID))
		event.SetCreatedTime(req.CreatedAt)
		event.SetDtStampTime(req.UpdatedAt)
		event.SetAllDayStartAt(*req.DesiredEstimationDate)
		event.SetAllDayEndAt(req.DesiredEstimationDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("積算期限: %s", req.ProjectName))

		description := fmt.Sprintf("ステータス: %s", req.Status.Label())
		if name := req.EstimationPersonName(); name != "" {
			description += fmt.Sprintf(" / 積算担当: %s", name)
		}
		if name := req.SalesPersonName(); name != "" {
			description += fmt.Sprintf(" / 営業担当: %s", name)
		}
		event.SetDescription(description)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "estimation_deadlines.ics", nil
}
