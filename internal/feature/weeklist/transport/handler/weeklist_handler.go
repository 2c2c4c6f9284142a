// Package handler はweeklistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"weeklist_backend/internal/api"
	"weeklist_backend/internal/feature/weeklist/domain/entity"
	"weeklist_backend/internal/feature/weeklist/transport/middleware"
	"weeklist_backend/internal/feature/weeklist/usecase"
	jwtmw "weeklist_backend/internal/platform/jwt"
)

// WeekListUsecase はウィークリスト操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type WeekListUsecase interface {
	Create(ctx context.Context, ownerID uint, description string, taskDescriptions []string, endDate time.Time) (*entity.WeekList, error)
	GetByID(ctx context.Context, id, ownerID uint) (*entity.WeekList, error)
	ListMine(ctx context.Context, ownerID uint) ([]entity.WeekList, error)
	Feed(ctx context.Context, requesterID uint) ([]entity.WeekList, error)
	Update(ctx context.Context, id uint, description string, taskDescriptions []string) (*entity.WeekList, error)
	Delete(ctx context.Context, id uint) error
	MarkTask(ctx context.Context, listID uint, taskID string, marked bool) (*entity.WeekList, error)
	Complete(ctx context.Context, listID uint) (*entity.WeekList, error)
}

// WeekListHandler はウィークリスト操作のHTTPリクエストを処理します。
// クォータ・編集ウィンドウ・状態の各ゲートはルート側のミドルウェアとして
// 先に評価されます。
type WeekListHandler struct {
	uc WeekListUsecase
}

// NewWeekListHandler はWeekListHandlerの新しいインスタンスを生成します。
func NewWeekListHandler(uc WeekListUsecase) *WeekListHandler {
	return &WeekListHandler{uc: uc}
}

// Create は POST /weeklist を処理します。クォータゲート通過後に呼ばれます。
// - description, tasks, endDate の存在を検証（400）
// - リクエスターをオーナーとしてactive状態で作成し、201+エンティティを返却
func (h *WeekListHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req api.CreateWeekListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create weeklist validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, api.Error(api.CodeValidationError, "description, tasks and endDate are required"))
		return
	}

	list, err := h.uc.Create(c.Request.Context(), userID, req.Description, req.Tasks, req.EndDate)
	if err != nil {
		internalError(c, "create weeklist failed", err)
		return
	}

	slog.Info("weeklist created", "weeklist_id", list.ID, "user_id", userID)
	c.JSON(http.StatusCreated, toWeekListResponse(list))
}

// GetByID は GET /weeklist/:weekListId を処理します。
// 所有がリクエスターでないリストは存在しないものとして404を返します。
func (h *WeekListHandler) GetByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	listID, ok := pathWeekListID(c)
	if !ok {
		return
	}

	list, err := h.uc.GetByID(c.Request.Context(), listID, userID)
	if err != nil {
		if errors.Is(err, usecase.ErrWeekListNotFound) {
			c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "week list not found"))
			return
		}
		internalError(c, "get weeklist failed", err)
		return
	}

	c.JSON(http.StatusOK, toWeekListResponse(list))
}

// ListMine は GET /weeklists を処理します。
// リクエスターの全リストをタスク省略で返し、各項目に残り時間（ミリ秒、
// 期限超過後は0）を付与します。
func (h *WeekListHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lists, err := h.uc.ListMine(c.Request.Context(), userID)
	if err != nil {
		internalError(c, "list weeklists failed", err)
		return
	}

	now := time.Now()
	out := make([]api.WeekListSummary, 0, len(lists))
	for i := range lists {
		l := &lists[i]
		out = append(out, api.WeekListSummary{
			ID:          l.ID,
			UserID:      l.UserID,
			Description: l.Description,
			EndDate:     l.EndDate,
			State:       string(l.State),
			CreatedAt:   l.CreatedAt,
			TimeLeft:    l.TimeLeft(now).Milliseconds(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// Feed は GET /feed を処理します。
// 他のユーザーのアクティブかつ期限前のリストをタスク省略で返します。
// リクエスター自身のリストは含まれません。
func (h *WeekListHandler) Feed(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lists, err := h.uc.Feed(c.Request.Context(), userID)
	if err != nil {
		internalError(c, "feed failed", err)
		return
	}

	out := make([]api.FeedItem, 0, len(lists))
	for i := range lists {
		l := &lists[i]
		out = append(out, api.FeedItem{
			ID:          l.ID,
			UserID:      l.UserID,
			Description: l.Description,
			EndDate:     l.EndDate,
			State:       string(l.State),
			CreatedAt:   l.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Update は PUT /weeklist/:weekListId を処理します。編集ウィンドウゲート
// 通過後に呼ばれ、説明とタスク列のみを置き換えます。
func (h *WeekListHandler) Update(c *gin.Context) {
	listID, ok := pathWeekListID(c)
	if !ok {
		return
	}

	var req api.UpdateWeekListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update weeklist validation failed", "error", err, "weeklist_id", listID)
		c.JSON(http.StatusBadRequest, api.Error(api.CodeValidationError, "description and tasks are required"))
		return
	}

	list, err := h.uc.Update(c.Request.Context(), listID, req.Description, req.Tasks)
	if err != nil {
		if errors.Is(err, usecase.ErrWeekListNotFound) {
			c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "week list not found"))
			return
		}
		internalError(c, "update weeklist failed", err)
		return
	}

	slog.Info("weeklist updated", "weeklist_id", list.ID)
	c.JSON(http.StatusOK, toWeekListResponse(list))
}

// Delete は DELETE /weeklist/:weekListId を処理します。編集ウィンドウゲート
// 通過後に呼ばれ、成功時は204を返します。
func (h *WeekListHandler) Delete(c *gin.Context) {
	listID, ok := pathWeekListID(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), listID); err != nil {
		if errors.Is(err, usecase.ErrWeekListNotFound) {
			c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "week list not found"))
			return
		}
		internalError(c, "delete weeklist failed", err)
		return
	}

	slog.Info("weeklist deleted", "weeklist_id", listID)
	c.Status(http.StatusNoContent)
}

// MarkTask は PATCH /weeklist/:weekListId/task/:taskId を処理します。
// 状態ゲート（active必須）通過後に呼ばれます。
// marked=trueでcompletedAtに現在時刻を設定し、falseでクリアします。
func (h *WeekListHandler) MarkTask(c *gin.Context) {
	listID, ok := pathWeekListID(c)
	if !ok {
		return
	}
	taskID := c.Param("taskId")

	var req api.MarkTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("mark task validation failed", "error", err, "weeklist_id", listID)
		c.JSON(http.StatusBadRequest, api.Error(api.CodeValidationError, "marked is required"))
		return
	}

	list, err := h.uc.MarkTask(c.Request.Context(), listID, taskID, *req.Marked)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWeekListNotFound):
			c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "week list not found"))
		case errors.Is(err, usecase.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "task not found"))
		default:
			internalError(c, "mark task failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, toWeekListResponse(list))
}

// Complete は POST /weeklist/:weekListId/complete を処理します。
// 状態ゲート（active必須）通過後に呼ばれ、リストをcompletedに遷移させます。
// completedは終端状態で、activeに戻す操作は存在しません。
func (h *WeekListHandler) Complete(c *gin.Context) {
	listID, ok := pathWeekListID(c)
	if !ok {
		return
	}

	list, err := h.uc.Complete(c.Request.Context(), listID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWeekListNotFound):
			c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "week list not found"))
		case errors.Is(err, usecase.ErrWeekListNotActive):
			c.JSON(http.StatusBadRequest, api.Error(api.CodeNotActive, err.Error()))
		default:
			internalError(c, "complete weeklist failed", err)
		}
		return
	}

	slog.Info("weeklist completed", "weeklist_id", list.ID)
	c.JSON(http.StatusOK, toWeekListResponse(list))
}

// requireUserID は認証ミドルウェアが設定したユーザーIDを取り出します。
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			api.Error(api.CodeUnauthorized, "missing token"))
		return 0, false
	}
	return userID, true
}

// pathWeekListID はルートパラメータからウィークリストIDを取り出します。
// 数値でないIDはリソース不在と同じ404として扱います。
func pathWeekListID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(middleware.ParamWeekListID), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, api.Error(api.CodeNotFound, "week list not found"))
		return 0, false
	}
	return uint(id), true
}

func internalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, api.Error(api.CodeInternalError, "internal server error"))
}

// toWeekListResponse はエンティティをレスポンスDTOに変換します。
func toWeekListResponse(l *entity.WeekList) api.WeekListResponse {
	tasks := make([]api.TaskResponse, 0, len(l.Tasks))
	for _, t := range l.Tasks {
		tasks = append(tasks, api.TaskResponse{
			ID:          t.ID,
			Description: t.Description,
			Marked:      t.Marked,
			CompletedAt: t.CompletedAt,
		})
	}
	return api.WeekListResponse{
		ID:          l.ID,
		UserID:      l.UserID,
		Description: l.Description,
		Tasks:       tasks,
		EndDate:     l.EndDate,
		State:       string(l.State),
		CreatedAt:   l.CreatedAt,
	}
}
