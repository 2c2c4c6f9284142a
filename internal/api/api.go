// Package api はHTTP境界で共有されるリクエスト/レスポンスDTOを定義します。
package api

import "time"

// エラーレスポンスのcodeフィールドに使用する値。
const (
	CodeValidationError   = "validation_error"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeConflict          = "conflict"
	CodeNotFound          = "not_found"
	CodeQuotaExceeded     = "quota_exceeded"
	CodeEditWindowExpired = "edit_window_expired"
	CodeNotActive         = "not_active"
	CodeRateLimited       = "rate_limited"
	CodeInternalError     = "internal_error"
)

// ErrorResponse は失敗時の共通レスポンスボディです。
// ステータスコードは従来の表面を維持しつつ、ボディは構造化された
// {code, message} 形式を返します。
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error はErrorResponseを生成するヘルパーです。
func Error(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message}
}

// MessageResponse is a generic success body carrying a single message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest は /register エンドポイントのリクエストボディを表します。
// 元のサービス同様、全フィールドが必須です。
type RegisterRequest struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Age      int    `json:"age" binding:"required,gte=1,lte=150"`
	Gender   string `json:"gender" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
}

// LoginRequest は /login エンドポイントのリクエストボディを表します。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse はユーザー情報のレスポンス表現です。
// パスワードは含まれません。Tokenは直近発行分の参照用コピーです。
type UserResponse struct {
	ID        uint      `json:"id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Mobile    string    `json:"mobile"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse は認証成功時のレスポンスボディです。
type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// CreateWeekListRequest は POST /weeklist のリクエストボディを表します。
type CreateWeekListRequest struct {
	Description string    `json:"description" binding:"required"`
	Tasks       []string  `json:"tasks" binding:"required,min=1,dive,required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
}

// UpdateWeekListRequest は PUT /weeklist/:weekListId のリクエストボディを表します。
// オーナー・endDate・状態は変更できないため、ここには現れません。
type UpdateWeekListRequest struct {
	Description string   `json:"description" binding:"required"`
	Tasks       []string `json:"tasks" binding:"required,min=1,dive,required"`
}

// MarkTaskRequest は PATCH /weeklist/:weekListId/task/:taskId のボディです。
// false送信時にrequiredで弾かれないよう、ポインタでバインドします。
type MarkTaskRequest struct {
	Marked *bool `json:"marked" binding:"required"`
}

// TaskResponse はウィークリスト内のタスクのレスポンス表現です。
type TaskResponse struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Marked      bool       `json:"marked"`
	CompletedAt *time.Time `json:"completedAt"`
}

// WeekListResponse はウィークリスト全体（タスク込み）のレスポンス表現です。
type WeekListResponse struct {
	ID          uint           `json:"id"`
	UserID      uint           `json:"userId"`
	Description string         `json:"description"`
	Tasks       []TaskResponse `json:"tasks"`
	EndDate     time.Time      `json:"endDate"`
	State       string         `json:"state"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// WeekListSummary はタスクを省略した一覧用の表現です。
// TimeLeft は endDate までの残り時間（ミリ秒、期限超過後は0）です。
type WeekListSummary struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Description string    `json:"description"`
	EndDate     time.Time `json:"endDate"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	TimeLeft    int64     `json:"timeLeft"`
}

// FeedItem はフィード（他ユーザーのアクティブなリスト）の1件分です。
type FeedItem struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Description string    `json:"description"`
	EndDate     time.Time `json:"endDate"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HealthResponse は /health エンドポイントのレスポンスボディです。
type HealthResponse struct {
	Server      string    `json:"server"`
	CurrentTime time.Time `json:"currentTime"`
	State       string    `json:"state"`
	Message     string    `json:"message"`
}
