package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/model"
	"sales-estimation/backend/internal/notify"
	"sales-estimation/backend/internal/repository"
)

// ── 積算依頼モジュール業務エラー ──

var (
	ErrRequestNotFound = errors.New("積算依頼が見つかりません")
	ErrInvalidStatus   = errors.New("不正なステータスです")
	ErrInvalidDate     = errors.New("日付の形式が不正です（YYYY-MM-DD）")
)

const dateLayout = "2006-01-02"

// RequestService 積算依頼のライフサイクルを司る業務インターフェース
//
// 通知の発火規則:
//   - 新規登録時、積算担当が入力されていれば割り当て通知
//   - 更新時、ステータスが「完了」へ変わったら営業担当へ完了通知
//   - 更新時、積算担当が変わり空でなければ新担当へ割り当て通知
//     （完了通知と同一更新内で両方発火し得る。順序は完了→割り当てで固定）
//
// 通知の失敗は致命的ではない。永続化が成功していればロールバックせず、
// 警告文字列として呼び出し元へ返す（リトライ・キューは持たない）。
type RequestService interface {
	Create(ctx context.Context, form *dto.EstimationRequestForm) (*dto.EstimationRequestResponse, []string, error)
	Update(ctx context.Context, id string, form *dto.EstimationRequestForm) (*dto.EstimationRequestResponse, []string, error)
	Get(ctx context.Context, id string) (*dto.EstimationRequestResponse, error)
	List(ctx context.Context, req *dto.ListRequestsRequest) ([]dto.EstimationRequestResponse, int64, error)
	Delete(ctx context.Context, id string) error
	StatusOptions() []dto.StatusOptionResponse
}

type requestService struct {
	repo     *repository.Repository
	sender   notify.Sender
	composer *notify.Composer
	logger   *zap.Logger
}

// NewRequestService RequestService を生成する
func NewRequestService(
	repo *repository.Repository,
	sender notify.Sender,
	composer *notify.Composer,
	logger *zap.Logger,
) RequestService {
	return &requestService{
		repo:     repo,
		sender:   sender,
		composer: composer,
		logger:   logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *requestService) Create(ctx context.Context, form *dto.EstimationRequestForm) (*dto.EstimationRequestResponse, []string, error) {
	req, err := s.buildModel(form)
	if err != nil {
		return nil, nil, err
	}

	// 永続化は必ず通知より先。失敗したら操作全体を中断する。
	if err := s.repo.Request.Create(ctx, req); err != nil {
		s.logger.Error("積算依頼の登録に失敗", zap.Error(err))
		return nil, nil, err
	}

	var warnings []string
	if name := req.EstimationPersonName(); name != "" {
		if w := s.sendNotification(ctx, notify.KindAssignment, req.ProjectName, name); w != "" {
			warnings = append(warnings, w)
		}
	}

	return toRequestResponse(req), warnings, nil
}

// ────────────────────── Update ──────────────────────

func (s *requestService) Update(ctx context.Context, id string, form *dto.EstimationRequestForm) (*dto.EstimationRequestResponse, []string, error) {
	previous, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRequestNotFound
		}
		s.logger.Error("積算依頼の取得に失敗", zap.Error(err))
		return nil, nil, err
	}

	// 通知判定に使う変更前の値を控えてから上書きする
	prevStatus := previous.Status
	prevEstimator := previous.EstimationPersonName()

	next, err := s.buildModel(form)
	if err != nil {
		return nil, nil, err
	}
	next.RequestID = previous.RequestID
	next.CreatedAt = previous.CreatedAt

	if err := s.repo.Request.Update(ctx, next); err != nil {
		s.logger.Error("積算依頼の更新に失敗", zap.Error(err))
		return nil, nil, err
	}

	// 通知は固定順で逐次試行する：完了チェック → 割り当てチェック。
	// 片方の失敗がもう片方の試行を妨げてはならない。
	var warnings []string

	if prevStatus != model.StatusCompleted && next.Status == model.StatusCompleted {
		if name := next.SalesPersonName(); name != "" {
			if w := s.sendNotification(ctx, notify.KindCompletion, next.ProjectName, name); w != "" {
				warnings = append(warnings, w)
			}
		} else {
			warnings = append(warnings, "営業担当が未設定のため完了通知をスキップしました")
		}
	}

	if newEstimator := next.EstimationPersonName(); newEstimator != "" && newEstimator != prevEstimator {
		if w := s.sendNotification(ctx, notify.KindAssignment, next.ProjectName, newEstimator); w != "" {
			warnings = append(warnings, w)
		}
	}

	return toRequestResponse(next), warnings, nil
}

// ────────────────────── Get / List / Delete ──────────────────────

func (s *requestService) Get(ctx context.Context, id string) (*dto.EstimationRequestResponse, error) {
	req, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("積算依頼の取得に失敗", zap.Error(err))
		return nil, err
	}
	return toRequestResponse(req), nil
}

func (s *requestService) List(ctx context.Context, req *dto.ListRequestsRequest) ([]dto.EstimationRequestResponse, int64, error) {
	filter := repository.RequestFilter{Query: req.Query}
	if req.Status != "" {
		status := model.Status(req.Status)
		if !status.IsValid() {
			return nil, 0, ErrInvalidStatus
		}
		filter.Status = status
	}

	requests, total, err := s.repo.Request.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("積算依頼一覧の取得に失敗", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.EstimationRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, *toRequestResponse(&requests[i]))
	}
	return responses, total, nil
}

func (s *requestService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Request.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		s.logger.Error("積算依頼の削除に失敗", zap.Error(err))
		return err
	}
	return nil
}

func (s *requestService) StatusOptions() []dto.StatusOptionResponse {
	statuses := model.AllStatuses()
	options := make([]dto.StatusOptionResponse, 0, len(statuses))
	for _, st := range statuses {
		options = append(options, dto.StatusOptionResponse{
			Value: string(st),
			Label: st.Label(),
		})
	}
	return options
}

// ────────────────────── 通知 ──────────────────────

// sendNotification 担当者名から宛先を解決して通知を送る
// 成功なら空文字、失敗なら利用者に見せる警告文を返す。
func (s *requestService) sendNotification(ctx context.Context, kind notify.Kind, projectName, personName string) string {
	user, err := s.repo.User.GetByUsername(ctx, personName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("通知先の担当者が未登録",
				zap.String("person", personName),
				zap.String("kind", string(kind)),
			)
			return fmt.Sprintf("通知先が見つかりません: 担当者 %q が未登録です", personName)
		}
		s.logger.Error("通知先の解決に失敗", zap.Error(err))
		return fmt.Sprintf("通知先の解決に失敗しました: %s", personName)
	}
	if user.Email == "" {
		s.logger.Warn("通知先のメールアドレスが未登録", zap.String("person", personName))
		return fmt.Sprintf("通知先が見つかりません: 担当者 %q のメールアドレスが未登録です", personName)
	}

	msg := s.composer.Compose(kind, projectName, personName, user.Email)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("通知の送信に失敗",
			zap.String("kind", string(kind)),
			zap.String("project", projectName),
			zap.String("recipient", user.Email),
			zap.Error(err),
		)
		return fmt.Sprintf("通知の送信に失敗しました（%s）", kindLabel(kind))
	}

	return ""
}

func kindLabel(kind notify.Kind) string {
	switch kind {
	case notify.KindAssignment:
		return "割り当て通知"
	case notify.KindCompletion:
		return "完了通知"
	default:
		return string(kind)
	}
}

// ────────────────────── 変換ヘルパー ──────────────────────

// buildModel フォームをモデルへ変換する。空文字の任意項目は NULL にする。
func (s *requestService) buildModel(form *dto.EstimationRequestForm) (*model.EstimationRequest, error) {
	status := model.Status(form.Status)
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	requestDate, err := time.Parse(dateLayout, form.RequestDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	desiredDate, err := parseOptionalDate(form.DesiredEstimationDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	completionDate, err := parseOptionalDate(form.CompletionDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	return &model.EstimationRequest{
		RequestDate:           requestDate,
		DesiredEstimationDate: desiredDate,
		ProjectName:           form.ProjectName,
		ZacProjectNumber:      nilIfBlank(form.ZacProjectNumber),
		SalesPerson:           nilIfBlank(form.SalesPerson),
		EstimationPerson:      nilIfBlank(form.EstimationPerson),
		Status:                status,
		Estimation:            nilIfBlank(form.Estimation),
		CompletionDate:        completionDate,
		Remarks:               nilIfBlank(form.Remarks),
		EstimationMaterials:   nilIfBlank(form.EstimationMaterials),
		BoxURL:                nilIfBlank(form.BoxURL),
		Others:                nilIfBlank(form.Others),
	}, nil
}

func nilIfBlank(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toRequestResponse(req *model.EstimationRequest) *dto.EstimationRequestResponse {
	return &dto.EstimationRequestResponse{
		ID:                    req.RequestID,
		RequestDate:           req.RequestDate.Format(dateLayout),
		DesiredEstimationDate: formatOptionalDate(req.DesiredEstimationDate),
		ProjectName:           req.ProjectName,
		ZacProjectNumber:      derefOrEmpty(req.ZacProjectNumber),
		SalesPerson:           derefOrEmpty(req.SalesPerson),
		EstimationPerson:      derefOrEmpty(req.EstimationPerson),
		Status:                string(req.Status),
		StatusLabel:           req.Status.Label(),
		Estimation:            derefOrEmpty(req.Estimation),
		CompletionDate:        formatOptionalDate(req.CompletionDate),
		Remarks:               derefOrEmpty(req.Remarks),
		EstimationMaterials:   derefOrEmpty(req.EstimationMaterials),
		BoxURL:                derefOrEmpty(req.BoxURL),
		Others:                derefOrEmpty(req.Others),
		CreatedAt:             req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             req.UpdatedAt.Format(time.RFC3339),
	}
}
