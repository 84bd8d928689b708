package session

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sales-estimation/backend/config"
)

var (
	ErrTokenExpired = errors.New("セッションの有効期限が切れています")
	ErrTokenInvalid = errors.New("セッショントークンが無効です")
)

// Claims セッショントークンのクレーム
// 共有パスワードゲートなので個人を識別する情報は持たない。
// jti（RegisteredClaims.ID）がログアウト時のブラックリストキーになる。
type Claims struct {
	TokenType string `json:"token_type"` // 常に "session"
	jwtv5.RegisteredClaims
}

// Manager セッショントークンの発行・検証を担う
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager Manager を生成する
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.SessionTTL,
	}
}

// TTL セッション有効期間を返す
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue 新しいセッショントークンを発行する
func (m *Manager) Issue() (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: "session",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "sales-estimation",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse トークンを解析・検証する
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != "session" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
