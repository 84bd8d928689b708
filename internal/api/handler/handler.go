package handler

import "sales-estimation/backend/internal/service"

// Handler 全 Handler の集約
type Handler struct {
	Auth    *AuthHandler
	Request *RequestHandler
	User    *UserHandler
	Setting *SettingHandler
	Export  *ExportHandler
}

// NewHandler Handler 集約を生成する
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Request: NewRequestHandler(svc.Request),
		User:    NewUserHandler(svc.User),
		Setting: NewSettingHandler(svc.Setting),
		Export:  NewExportHandler(svc.Export),
	}
}
