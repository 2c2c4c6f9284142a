// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"weeklist_backend/internal/api"
	"weeklist_backend/internal/feature/auth/domain/entity"
	"weeklist_backend/internal/feature/auth/usecase"
	jwtmw "weeklist_backend/internal/platform/jwt"
)

// cookieMaxAge はtokenクッキーの有効期間（3日）です。
// トークン自体の有効期限より長いのは元のサービスから引き継いだ表面仕様です。
const cookieMaxAge = 3 * 24 * 60 * 60

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、ユーザーと発行済みトークンを返します。
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, string, error)
	// Login はユーザーを認証し、ユーザーと発行済みトークンを返します。
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterRequestにバインド（全フィールド必須）
// - バリデーションエラー時は400を返却
// - メール重複時は401を返却（従来の表面を維持）
// - 成功時はtokenクッキーを設定し201+ユーザーを返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Error(api.CodeValidationError, "all fields are compulsory"))
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Gender:   req.Gender,
		Mobile:   req.Mobile,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			slog.Warn("register rejected: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.Error(api.CodeConflict, "user already registered"))
			return
		}
		slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Error(api.CodeInternalError, "internal server error"))
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email, "remote_addr", c.ClientIP())
	setTokenCookie(c, token)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証の入口であり、事前のトークンは不要です。
// - リクエストJSONをLoginRequestにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 成功時はtokenクッキーを設定し200+トークン+ユーザーを返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Error(api.CodeValidationError, "send all the data"))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、詳細は公開しない
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.Error(api.CodeUnauthorized, "invalid email or password"))
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Error(api.CodeInternalError, "internal server error"))
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	setTokenCookie(c, token)
	c.JSON(http.StatusOK, api.LoginResponse{
		Success: true,
		Token:   token,
		User:    toUserResponse(user),
	})
}

// setTokenCookie はHTTP-onlyのtokenクッキーを設定します。
func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(jwtmw.TokenCookieName, token, cookieMaxAge, "/", "", false, true)
}

// toUserResponse はエンティティをレスポンスDTOに変換します。
// パスワードはDTOに存在しないため、レスポンスに漏れることはありません。
func toUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Age:       u.Age,
		Gender:    u.Gender,
		Mobile:    u.Mobile,
		Token:     u.Token,
		CreatedAt: u.CreatedAt,
	}
}
