package service

import (
	"go.uber.org/zap"

	"sales-estimation/backend/internal/notify"
	"sales-estimation/backend/internal/repository"
	"sales-estimation/backend/pkg/redis"
	"sales-estimation/backend/pkg/session"
)

// Service 全 Service の集約
type Service struct {
	Auth    AuthService
	Request RequestService
	User    UserService
	Setting SettingService
	Export  ExportService
}

// NewService Service 集約を生成する
func NewService(
	repo *repository.Repository,
	sender notify.Sender,
	composer *notify.Composer,
	sessionMgr *session.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, sessionMgr, rdb, logger),
		Request: NewRequestService(repo, sender, composer, logger),
		User:    NewUserService(repo, logger),
		Setting: NewSettingService(repo, logger),
		Export:  NewExportService(repo, logger),
	}
}
