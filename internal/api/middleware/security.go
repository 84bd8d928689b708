package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders セキュリティ HTTP ヘッダミドルウェア
// クリックジャッキング・MIME スニッフィング等への一般的な防御ヘッダを付与する
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		c.Next()
	}
}
