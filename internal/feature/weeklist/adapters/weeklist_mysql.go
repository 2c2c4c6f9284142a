// Package adapters はweeklistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"weeklist_backend/internal/feature/weeklist/domain/entity"
	"weeklist_backend/internal/feature/weeklist/usecase"
)

// weekListMySQL はWeekListRepositoryインターフェースのMySQL実装です。
// タスク列はJSONカラムとして行に埋め込まれるため、集約全体が常に
// 1行の読み書きで完結します。
type weekListMySQL struct {
	db *gorm.DB
}

// weekListMySQLがWeekListRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.WeekListRepository = (*weekListMySQL)(nil)

// NewWeekListMySQL は指定されたgorm.DB接続でweekListMySQLの新しいインスタンスを生成します。
func NewWeekListMySQL(db *gorm.DB) *weekListMySQL {
	return &weekListMySQL{db: db}
}

// Create はウィークリストをデータベースに追加します。
func (r *weekListMySQL) Create(ctx context.Context, list *entity.WeekList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID はIDでウィークリストを取得します。
func (r *weekListMySQL) FindByID(ctx context.Context, id uint) (*entity.WeekList, error) {
	var list entity.WeekList
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrWeekListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByIDAndOwner はIDとオーナーの両方に一致するウィークリストを取得します。
// オーナー不一致は存在しないのと同じ扱いになります。
func (r *weekListMySQL) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*entity.WeekList, error) {
	var list entity.WeekList
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrWeekListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByOwner はオーナーの全ウィークリストを作成順で返します。
func (r *weekListMySQL) FindByOwner(ctx context.Context, ownerID uint) ([]entity.WeekList, error) {
	var lists []entity.WeekList
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// FindFeed は指定ユーザー以外の、アクティブかつ期限前のリストを返します。
func (r *weekListMySQL) FindFeed(ctx context.Context, excludeOwnerID uint) ([]entity.WeekList, error) {
	var lists []entity.WeekList
	if err := r.db.WithContext(ctx).
		Where("user_id <> ? AND state = ? AND end_date > ?",
			excludeOwnerID, entity.StateActive, time.Now()).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// CountActive はオーナーの「期限が未来」のリスト数を返します。
// クォータゲートのカウント対象は元のサービス同様end_dateのみで判定します。
func (r *weekListMySQL) CountActive(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.WeekList{}).
		Where("user_id = ? AND end_date > ?", ownerID, time.Now()).
		Count(&count).Error
	return count, err
}

// Save は集約全体を1行の更新として保存します。
func (r *weekListMySQL) Save(ctx context.Context, list *entity.WeekList) error {
	result := r.db.WithContext(ctx).Save(list)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrWeekListNotFound
	}
	return nil
}

// Delete はウィークリストを削除します。タスクは行に埋め込まれているため
// 一緒に消えます。
func (r *weekListMySQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.WeekList{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrWeekListNotFound
	}
	return nil
}
