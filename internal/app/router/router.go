package router

import (
	"github.com/gin-gonic/gin"

	authhandler "weeklist_backend/internal/feature/auth/transport/handler"
	weeklisthandler "weeklist_backend/internal/feature/weeklist/transport/handler"
	weeklistmw "weeklist_backend/internal/feature/weeklist/transport/middleware"
	"weeklist_backend/internal/platform/http/handler"
	jwtmw "weeklist_backend/internal/platform/jwt"
	"weeklist_backend/internal/shared/ratelimiter"
)

// NewRouter は全ルートを組み立てます。
// パイプラインは 認証ゲート → ビジネスルールゲート → ハンドラー の順で、
// 最初に失敗したゲートがリクエストを中断します。
func NewRouter(authHandler *authhandler.AuthHandler, weekList *weeklisthandler.WeekListHandler,
	gates weeklistmw.GateUsecase, verifier jwtmw.Verifier,
	authLimiter ratelimiter.RateLimiterInterface) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/", handler.Root)
	for _, path := range []string{"/health", "/healthz"} {
		r.GET(path, handler.Health)
		r.HEAD(path, handler.Health)
		r.OPTIONS(path, handler.Health)
	}

	// 認証エンドポイントはレートリミット付き
	// ログインは認証の入口なのでトークン不要
	limited := r.Group("/")
	limited.Use(ratelimiter.Middleware(authLimiter))
	{
		// 新規ユーザー登録
		limited.POST("/register", authHandler.Register)
		// ログイン（JWT 発行）
		limited.POST("/login", authHandler.Login)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() がクッキーまたはBearerヘッダーのトークンを検証する
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(verifier))
	{
		auth.GET("/weeklists", weekList.ListMine)
		auth.GET("/weeklist/:weekListId", weekList.GetByID)
		auth.GET("/feed", weekList.Feed)
		auth.POST("/weeklist", weeklistmw.QuotaGate(gates), weekList.Create)
		auth.PUT("/weeklist/:weekListId", weeklistmw.EditWindowGate(gates), weekList.Update)
		auth.DELETE("/weeklist/:weekListId", weeklistmw.EditWindowGate(gates), weekList.Delete)
		auth.PATCH("/weeklist/:weekListId/task/:taskId", weeklistmw.ActiveStateGate(gates), weekList.MarkTask)
		auth.POST("/weeklist/:weekListId/complete", weeklistmw.ActiveStateGate(gates), weekList.Complete)
	}

	return r
}
