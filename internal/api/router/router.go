package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales-estimation/backend/config"
	"sales-estimation/backend/internal/api/handler"
	"sales-estimation/backend/internal/api/middleware"
	"sales-estimation/backend/pkg/redis"
	"sales-estimation/backend/pkg/session"
)

// Setup Gin ルーターを初期化して返す
func Setup(cfg *config.Config, h *handler.Handler, sessionMgr *session.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── グローバルミドルウェア ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── ヘルスチェック ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 認証モジュール（認証不要）
		v1.POST("/auth/login", h.Auth.Login)

		// 共有パスワードゲートの内側
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(sessionMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 積算依頼モジュール
			requests := authorized.Group("/requests")
			{
				requests.GET("", h.Request.List)
				requests.GET("/:id", h.Request.Get)
				requests.POST("", h.Request.Create)
				requests.PUT("/:id", h.Request.Update)
				requests.DELETE("/:id", h.Request.Delete)
			}
			authorized.GET("/status-options", h.Request.StatusOptions)

			// 担当者モジュール
			users := authorized.Group("/users")
			{
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
				users.POST("", h.User.Create)
				users.PUT("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Delete)
			}

			// アプリ設定モジュール
			settings := authorized.Group("/settings")
			{
				settings.GET("/:key", h.Setting.Get)
				settings.PUT("/:key", h.Setting.Set)
			}

			// エクスポートモジュール
			export := authorized.Group("/export")
			{
				export.GET("/requests.xlsx", h.Export.ExportRequestsExcel)
				export.GET("/deadlines.ics", h.Export.ExportDeadlinesICS)
			}
		}
	}

	return r
}
