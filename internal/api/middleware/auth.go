package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"sales-estimation/backend/pkg/redis"
	"sales-estimation/backend/pkg/response"
	"sales-estimation/backend/pkg/session"
)

// ContextKeySession セッションクレームを格納するコンテキストキー
const ContextKeySession = "session_claims"

// SessionAuth 共有パスワードゲートのセッション認証ミドルウェア
// Authorization: Bearer <token> からセッショントークンを検証する。
// rdb が非 nil の場合はログアウト済みセッション（ブラックリスト）も確認する。
func SessionAuth(sessionMgr *session.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "認証ヘッダがありません")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "認証ヘッダの形式が不正です")
			c.Abort()
			return
		}

		claims, err := sessionMgr.Parse(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "セッションが無効または期限切れです")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "ログアウト済みのセッションです")
				c.Abort()
				return
			}
			// Redis 障害時は検証をスキップして通す（トークン署名の検証は済んでいる）
		}

		c.Set(ContextKeySession, claims)

		c.Next()
	}
}
