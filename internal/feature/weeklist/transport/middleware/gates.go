// Package middleware はweeklistフィーチャーのビジネスルールゲートを提供します。
//
// 各ゲートは独立した述語で、ルートに宣言された順に評価されます。
// 最初に失敗したゲートがパイプラインを中断してエラーを返すため、
// ゲート通過前に副作用が発生することはありません。
// いずれも認証ミドルウェアより後段に置かれる前提です。
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weeklist_backend/internal/api"
	"weeklist_backend/internal/feature/weeklist/usecase"
	jwtmw "weeklist_backend/internal/platform/jwt"
)

// ParamWeekListID はウィークリストIDのルートパラメータ名です。
const ParamWeekListID = "weekListId"

// GateUsecase はゲートが評価する述語を定義します。
// Goの慣例に従い、インターフェースはコンシューマー（middleware）が定義します。
type GateUsecase interface {
	// CheckQuota はアクティブなリストが上限未満であることを検証します。
	CheckQuota(ctx context.Context, userID uint) error
	// CheckEditable は対象が存在し編集ウィンドウ内であることを検証します。
	CheckEditable(ctx context.Context, listID uint) error
	// CheckActive は対象が存在しactive状態であることを検証します。
	CheckActive(ctx context.Context, listID uint) error
}

// QuotaGate はリクエスターの「アクティブかつ期限前」のリストが2つ未満で
// あることを確認するミドルウェアを返します。超過時は400を返します。
//
// カウントと後続のINSERTはトランザクションで括られないため、並行する作成が
// 同時にカウントを通過し得ます。ベストエフォートの制限として文書化された挙動です。
func QuotaGate(uc GateUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := jwtmw.UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.Error(api.CodeUnauthorized, "missing token"))
			return
		}

		if err := uc.CheckQuota(c.Request.Context(), userID); err != nil {
			if errors.Is(err, usecase.ErrQuotaExceeded) {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					api.Error(api.CodeQuotaExceeded, err.Error()))
				return
			}
			abortInternal(c, "quota gate failed", err)
			return
		}
		c.Next()
	}
}

// EditWindowGate は対象リストが存在し、作成から24時間以内であることを
// 確認するミドルウェアを返します。更新・削除のパスで必須です。
func EditWindowGate(uc GateUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := weekListID(c)
		if !ok {
			return
		}

		if err := uc.CheckEditable(c.Request.Context(), listID); err != nil {
			switch {
			case errors.Is(err, usecase.ErrWeekListNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound,
					api.Error(api.CodeNotFound, "week list not found"))
			case errors.Is(err, usecase.ErrEditWindowExpired):
				c.AbortWithStatusJSON(http.StatusBadRequest,
					api.Error(api.CodeEditWindowExpired, err.Error()))
			default:
				abortInternal(c, "edit window gate failed", err)
			}
			return
		}
		c.Next()
	}
}

// ActiveStateGate は対象リストが存在し、active状態であることを確認する
// ミドルウェアを返します。タスクのマークと完了遷移のパスで必須です。
func ActiveStateGate(uc GateUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := weekListID(c)
		if !ok {
			return
		}

		if err := uc.CheckActive(c.Request.Context(), listID); err != nil {
			switch {
			case errors.Is(err, usecase.ErrWeekListNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound,
					api.Error(api.CodeNotFound, "week list not found"))
			case errors.Is(err, usecase.ErrWeekListNotActive):
				c.AbortWithStatusJSON(http.StatusBadRequest,
					api.Error(api.CodeNotActive, err.Error()))
			default:
				abortInternal(c, "state gate failed", err)
			}
			return
		}
		c.Next()
	}
}

// weekListID はルートパラメータからウィークリストIDを取り出します。
// 数値でないIDはリソース不在と同じ404として扱います。
func weekListID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(ParamWeekListID), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound,
			api.Error(api.CodeNotFound, "week list not found"))
		return 0, false
	}
	return uint(id), true
}

func abortInternal(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "path", c.FullPath())
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		api.Error(api.CodeInternalError, "internal server error"))
}
