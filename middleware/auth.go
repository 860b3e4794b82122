package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/session"
)

const (
	AccountIDKey    = "account_id"
	SessionTokenKey = "session_token"
)

// Auth validates the Bearer JWT and resolves its embedded session token
// against the session table. The JWT alone is not enough; a revoked session
// rejects the request even before the JWT expires.
func Auth(secret string, sessions *session.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, secret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		resolveCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		accountID, err := sessions.Resolve(resolveCtx, claims.ID)
		if err != nil || accountID != claims.AccountID {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		ctx.Set(AccountIDKey, claims.AccountID)
		ctx.Set(SessionTokenKey, claims.ID)
		ctx.Next()
	}
}

// GetAccountID retrieves the authenticated account ID from the Gin context.
func GetAccountID(c *gin.Context) int64 {
	if v, exists := c.Get(AccountIDKey); exists {
		return v.(int64)
	}
	return 0
}

// GetSessionToken retrieves the session token from the Gin context.
func GetSessionToken(c *gin.Context) string {
	if v, exists := c.Get(SessionTokenKey); exists {
		return v.(string)
	}
	return ""
}
