package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/model"
	"sales-estimation/backend/internal/repository"
)

// ── アプリ設定モジュール業務エラー ──

var (
	ErrSettingNotFound  = errors.New("設定が見つかりません")
	ErrSettingProtected = errors.New("この設定キーは直接操作できません")
)

// SettingService アプリ設定の業務インターフェース
// ログインパスワードの行は認証モジュール経由でのみ更新できる
// （汎用エンドポイントからの読み書きは拒否する）。
type SettingService interface {
	Get(ctx context.Context, key string) (*dto.SettingResponse, error)
	Set(ctx context.Context, key, value string) (*dto.SettingResponse, error)
}

type settingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingService SettingService を生成する
func NewSettingService(repo *repository.Repository, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, logger: logger}
}

func (s *settingService) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	if key == model.SettingKeyLoginPassword {
		return nil, ErrSettingProtected
	}

	setting, err := s.repo.Setting.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		s.logger.Error("設定の取得に失敗", zap.Error(err))
		return nil, err
	}

	return toSettingResponse(setting), nil
}

func (s *settingService) Set(ctx context.Context, key, value string) (*dto.SettingResponse, error) {
	if key == model.SettingKeyLoginPassword {
		return nil, ErrSettingProtected
	}

	if err := s.repo.Setting.Set(ctx, key, value); err != nil {
		s.logger.Error("設定の更新に失敗", zap.Error(err))
		return nil, err
	}

	setting, err := s.repo.Setting.GetByKey(ctx, key)
	if err != nil {
		s.logger.Error("更新後の設定の取得に失敗", zap.Error(err))
		return nil, err
	}

	return toSettingResponse(setting), nil
}

func toSettingResponse(setting *model.AppSetting) *dto.SettingResponse {
	return &dto.SettingResponse{
		Key:       setting.SettingKey,
		Value:     setting.SettingValue,
		UpdatedAt: setting.UpdatedAt.Format(time.RFC3339),
	}
}
