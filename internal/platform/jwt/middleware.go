package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"weeklist_backend/internal/api"
)

// Context keys set by AuthRequired for downstream gates and handlers.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
)

// TokenCookieName is the HTTP-only cookie carrying the bearer token.
const TokenCookieName = "token"

// Verifier abstracts token verification for the middleware.
// Following Go convention: interfaces are defined by the consumer.
type Verifier interface {
	ParseToken(tokenStr string) (*Claims, error)
}

// AuthRequired はベアラートークンを検証し、未認証のアクセスを遮断する
// Ginミドルウェアを返します。トークンは `token` クッキー、なければ
// Authorizationヘッダーから取り出します。
//
// - トークンが存在しない場合: 401
// - 検証に失敗した場合（改ざん・期限切れ等）: 403
// - 成功時: コンテキストにユーザーIDを設定して後続へ
//
// アイデンティティを読む全てのゲート・ハンドラーより前に適用される必要があります。
func AuthRequired(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.Error(api.CodeUnauthorized, "missing token"))
			return
		}

		claims, err := verifier.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				api.Error(api.CodeForbidden, "invalid token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		if claims.Email != "" {
			c.Set(ContextEmail, claims.Email)
		}
		c.Next()
	}
}

// extractToken はクッキー優先でトークン文字列を取り出します。
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// UserID returns the authenticated user's id from the gin context.
// The second return value is false when AuthRequired did not run.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
