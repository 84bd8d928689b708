package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/model"
	"sales-estimation/backend/internal/repository"
	"sales-estimation/backend/pkg/redis"
	"sales-estimation/backend/pkg/session"
)

// ── 認証モジュール業務エラー ──

var (
	ErrInvalidPassword       = errors.New("パスワードが正しくありません")
	ErrPasswordNotConfigured = errors.New("ログインパスワードが設定されていません")
)

// AuthService 共有パスワードゲートの業務インターフェース
// 個人認証ではなく、ツール全体を守る単一の共有パスワードを扱う。
// 状態は「ロック」か「解除」の二つ。ログアウトは無条件にロックへ戻す。
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error)
	Logout(ctx context.Context, claims *session.Claims) error
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo       *repository.Repository
	sessionMgr *session.Manager
	rdb        *redis.Client // nil の場合はブラックリスト機能なしで動作
	logger     *zap.Logger
}

// NewAuthService AuthService を生成する
func NewAuthService(
	repo *repository.Repository,
	sessionMgr *session.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:       repo,
		sessionMgr: sessionMgr,
		rdb:        rdb,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionResponse, error) {
	stored, err := s.loadStoredPassword(ctx)
	if err != nil {
		return nil, err
	}

	if !verifyPassword(stored, req.Password) {
		// ロックアウトやバックオフは行わない。失敗を返すだけ。
		return nil, ErrInvalidPassword
	}

	token, err := s.sessionMgr.Issue()
	if err != nil {
		s.logger.Error("セッショントークンの発行に失敗", zap.Error(err))
		return nil, err
	}

	return &dto.SessionResponse{
		Token:     token,
		ExpiresIn: int(s.sessionMgr.TTL().Seconds()),
	}, nil
}

// Logout セッションをブラックリストに登録してロック状態へ戻す
// Redis が利用できない環境ではベストエフォート（トークン失効は期限任せ）。
func (s *authService) Logout(ctx context.Context, claims *session.Claims) error {
	if s.rdb == nil {
		s.logger.Warn("Redis 未接続のためセッションの即時失効をスキップ")
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistSession(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("セッションのブラックリスト登録に失敗", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error {
	stored, err := s.loadStoredPassword(ctx)
	if err != nil {
		return err
	}

	if !verifyPassword(stored, req.CurrentPassword) {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("パスワードハッシュの生成に失敗", zap.Error(err))
		return err
	}

	if err := s.repo.Setting.Set(ctx, model.SettingKeyLoginPassword, string(hash)); err != nil {
		s.logger.Error("パスワードの保存に失敗", zap.Error(err))
		return err
	}

	s.logger.Info("共有パスワードを変更しました")
	return nil
}

func (s *authService) loadStoredPassword(ctx context.Context) (string, error) {
	setting, err := s.repo.Setting.GetByKey(ctx, model.SettingKeyLoginPassword)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPasswordNotConfigured
		}
		s.logger.Error("ログインパスワードの取得に失敗", zap.Error(err))
		return "", err
	}
	return setting.SettingValue, nil
}

// verifyPassword 保存値が bcrypt ハッシュなら比較、平文（旧データ）なら
// 定数時間比較にフォールバックする。平文はパスワード変更時にハッシュへ移行する。
func verifyPassword(stored, entered string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(entered)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(entered)) == 1
}
