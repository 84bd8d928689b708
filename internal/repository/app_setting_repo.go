package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sales-estimation/backend/internal/model"
)

// AppSettingRepository アプリ設定データアクセスインターフェース
type AppSettingRepository interface {
	GetByKey(ctx context.Context, key string) (*model.AppSetting, error)
	Set(ctx context.Context, key, value string) error
}

// appSettingRepo AppSettingRepository の GORM 実装
type appSettingRepo struct {
	db *gorm.DB
}

// NewAppSettingRepo AppSettingRepository を生成する
func NewAppSettingRepo(db *gorm.DB) AppSettingRepository {
	return &appSettingRepo{db: db}
}

func (r *appSettingRepo) GetByKey(ctx context.Context, key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	err := r.db.WithContext(ctx).
		Where("setting_key = ?", key).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Set キーが既存なら値を更新し、無ければ新規作成する
func (r *appSettingRepo) Set(ctx context.Context, key, value string) error {
	setting := model.AppSetting{
		SettingKey:   key,
		SettingValue: value,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).
		Create(&setting).Error
}
