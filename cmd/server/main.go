package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sales-estimation/backend/config"
	"sales-estimation/backend/internal/api/handler"
	"sales-estimation/backend/internal/api/router"
	"sales-estimation/backend/internal/notify"
	"sales-estimation/backend/internal/repository"
	"sales-estimation/backend/internal/service"
	"sales-estimation/backend/pkg/database"
	applogger "sales-estimation/backend/pkg/logger"
	"sales-estimation/backend/pkg/redis"
	"sales-estimation/backend/pkg/session"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ロガーの初期化に失敗: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("アプリケーション起動中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("notify_mode", cfg.Notify.Mode),
	)

	// 3. データベース接続
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	logger.Info("データベース接続成功")

	// 3.1 マイグレーション実行
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("sql.DB の取得に失敗", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// 4. Redis 接続（任意：失敗時はブラックリスト機能を無効化して続行）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 接続に失敗。ログアウト済みセッションの失効機能は利用できません", zap.Error(err))
		rdb = nil
	}

	// 5. セッションマネージャー初期化
	sessionMgr := session.NewManager(&cfg.Auth)

	// 6. 通知送信の構成
	sender, err := notify.NewSender(&cfg.Notify, logger)
	if err != nil {
		logger.Fatal("通知送信の初期化に失敗", zap.Error(err))
	}
	composer := notify.NewComposer(cfg.Notify.SystemURL, nil)

	// 7. 依存注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, sender, composer, sessionMgr, rdb, logger)
	h := handler.NewHandler(svc)

	// 8. ルーター初期化
	engine := router.Setup(cfg, h, sessionMgr, rdb, logger)

	// 9. HTTP サーバー起動（グレースフルシャットダウン対応）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP サーバー起動", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP サーバー異常終了", zap.Error(err))
		}
	}()

	// 10. シグナル待機、グレースフルシャットダウン
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("終了シグナル受信。シャットダウンを開始します", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("サーバーのシャットダウンに失敗", zap.Error(err))
	}

	// データベース接続を閉じる
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// Redis 接続を閉じる
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("サーバーを終了しました")
}
