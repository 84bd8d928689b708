package repository

import (
	"context"

	"gorm.io/gorm"

	"sales-estimation/backend/internal/model"
)

// RequestFilter 一覧取得の絞り込み条件
type RequestFilter struct {
	Query  string       // 案件名・ZAC案件番号・営業担当の部分一致
	Status model.Status // 空ならすべて
}

// EstimationRequestRepository 積算依頼データアクセスインターフェース
type EstimationRequestRepository interface {
	Create(ctx context.Context, req *model.EstimationRequest) error
	GetByID(ctx context.Context, id string) (*model.EstimationRequest, error)
	Update(ctx context.Context, req *model.EstimationRequest) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RequestFilter, offset, limit int) ([]model.EstimationRequest, int64, error)
	ListOpenWithDeadline(ctx context.Context) ([]model.EstimationRequest, error)
}

// estimationRequestRepo EstimationRequestRepository の GORM 実装
type estimationRequestRepo struct {
	db *gorm.DB
}

// NewEstimationRequestRepo EstimationRequestRepository を生成する
func NewEstimationRequestRepo(db *gorm.DB) EstimationRequestRepository {
	return &estimationRequestRepo{db: db}
}

func (r *estimationRequestRepo) Create(ctx context.Context, req *model.EstimationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *estimationRequestRepo) GetByID(ctx context.Context, id string) (*model.EstimationRequest, error) {
	var req model.EstimationRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *estimationRequestRepo) Update(ctx context.Context, req *model.EstimationRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *estimationRequestRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		Delete(&model.EstimationRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *estimationRequestRepo) List(ctx context.Context, filter RequestFilter, offset, limit int) ([]model.EstimationRequest, int64, error) {
	var requests []model.EstimationRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.EstimationRequest{})

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		db = db.Where(
			"project_name ILIKE ? OR zac_project_number ILIKE ? OR sales_person ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ListOpenWithDeadline 完了・中止以外で積算希望日が設定された依頼を返す
// 期限カレンダー（ICS）エクスポートに使う。
func (r *estimationRequestRepo) ListOpenWithDeadline(ctx context.Context) ([]model.EstimationRequest, error) {
	var requests []model.EstimationRequest
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []model.Status{model.StatusCompleted, model.StatusCancelled}).
		Where("desired_estimation_date IS NOT NULL").
		Order("desired_estimation_date ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
