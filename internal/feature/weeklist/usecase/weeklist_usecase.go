// Package usecase はweeklistフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"weeklist_backend/internal/feature/weeklist/domain/entity"
)

// activeListLimit は同時にアクティブでいられるウィークリストの上限です。
const activeListLimit = 2

// WeekListRepository はウィークリスト集約の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
// 集約は1行で読み書きされるため、各メソッドは単一ドキュメント単位でアトミックです。
type WeekListRepository interface {
	// Create は新しいウィークリストを永続化します。
	Create(ctx context.Context, list *entity.WeekList) error

	// FindByID はIDでウィークリストを取得します。
	// 存在しない場合、ErrWeekListNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.WeekList, error)

	// FindByIDAndOwner はIDとオーナーの両方に一致するウィークリストを取得します。
	// 他人のリストはErrWeekListNotFoundになります（存在を漏らさない）。
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*entity.WeekList, error)

	// FindByOwner はオーナーの全ウィークリストを作成順で返します。
	FindByOwner(ctx context.Context, ownerID uint) ([]entity.WeekList, error)

	// FindFeed は指定ユーザー以外の、アクティブかつ期限前のリストを返します。
	FindFeed(ctx context.Context, excludeOwnerID uint) ([]entity.WeekList, error)

	// CountActive はオーナーの「期限が未来」のリスト数を返します。
	CountActive(ctx context.Context, ownerID uint) (int64, error)

	// Save は集約全体を1行の更新として保存します。
	Save(ctx context.Context, list *entity.WeekList) error

	// Delete はウィークリストを完全に削除します（埋め込みタスクも含む）。
	Delete(ctx context.Context, id uint) error
}

// WeekListUsecase はウィークリストのCRUDと状態遷移を実装します。
type WeekListUsecase struct {
	repo WeekListRepository
}

// NewWeekListUsecase はWeekListUsecaseの新しいインスタンスを生成します。
func NewWeekListUsecase(repo WeekListRepository) *WeekListUsecase {
	return &WeekListUsecase{repo: repo}
}

// CheckQuota はクォータゲートの述語です。作成時点で「アクティブかつ期限前」の
// リストが既に2つある場合、ErrQuotaExceededを返します。
//
// カウントとINSERTの間に他のリクエストが割り込めるcheck-then-actの競合は
// 既知のベストエフォート制限であり、トランザクションによる厳密な保証は行いません。
func (u *WeekListUsecase) CheckQuota(ctx context.Context, userID uint) error {
	count, err := u.repo.CountActive(ctx, userID)
	if err != nil {
		return err
	}
	if count >= activeListLimit {
		return ErrQuotaExceeded
	}
	return nil
}

// CheckEditable は編集ウィンドウゲートの述語です。
// 対象が存在しない場合はErrWeekListNotFound、作成から24時間を超えている場合は
// ErrEditWindowExpiredを返します。
func (u *WeekListUsecase) CheckEditable(ctx context.Context, listID uint) error {
	list, err := u.repo.FindByID(ctx, listID)
	if err != nil {
		return err
	}
	if !list.WithinEditWindow(time.Now()) {
		return ErrEditWindowExpired
	}
	return nil
}

// CheckActive は状態ゲートの述語です。
// 対象が存在しない場合はErrWeekListNotFound、状態がactiveでない場合は
// ErrWeekListNotActiveを返します。
func (u *WeekListUsecase) CheckActive(ctx context.Context, listID uint) error {
	list, err := u.repo.FindByID(ctx, listID)
	if err != nil {
		return err
	}
	if !list.IsActive() {
		return ErrWeekListNotActive
	}
	return nil
}

// newTasks はタスク説明のリストからuuid付きの未完了タスク列を組み立てます。
func newTasks(descriptions []string) []entity.Task {
	tasks := make([]entity.Task, 0, len(descriptions))
	for _, d := range descriptions {
		tasks = append(tasks, entity.Task{
			ID:          uuid.NewString(),
			Description: d,
		})
	}
	return tasks
}

// Create はリクエスターをオーナーとする新しいウィークリストを作成します。
// 状態はactive、タスクは未完了で初期化されます。
func (u *WeekListUsecase) Create(ctx context.Context, ownerID uint, description string, taskDescriptions []string, endDate time.Time) (*entity.WeekList, error) {
	list := &entity.WeekList{
		UserID:      ownerID,
		Description: description,
		Tasks:       newTasks(taskDescriptions),
		EndDate:     endDate,
		State:       entity.StateActive,
	}
	if err := u.repo.Create(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID はリクエスターが所有するウィークリストを返します。
// 他人のリストはErrWeekListNotFoundになります。
func (u *WeekListUsecase) GetByID(ctx context.Context, id, ownerID uint) (*entity.WeekList, error) {
	return u.repo.FindByIDAndOwner(ctx, id, ownerID)
}

// ListMine はリクエスターの全ウィークリストを返します。
func (u *WeekListUsecase) ListMine(ctx context.Context, ownerID uint) ([]entity.WeekList, error) {
	return u.repo.FindByOwner(ctx, ownerID)
}

// Feed は他のユーザーの、アクティブかつ期限前のウィークリストを返します。
func (u *WeekListUsecase) Feed(ctx context.Context, requesterID uint) ([]entity.WeekList, error) {
	return u.repo.FindFeed(ctx, requesterID)
}

// Update は説明とタスク列を置き換えます。オーナー・endDate・状態は変更されません。
// タスク列は全置換であり、新しいuuidが割り当てられます。
func (u *WeekListUsecase) Update(ctx context.Context, id uint, description string, taskDescriptions []string) (*entity.WeekList, error) {
	list, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list.Description = description
	list.Tasks = newTasks(taskDescriptions)
	if err := u.repo.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete はウィークリストを埋め込みタスクごと削除します。
func (u *WeekListUsecase) Delete(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}

// MarkTask は指定タスクのmarkedを設定します。
// completedAtはmarked=trueのとき現在時刻、falseのときnilになります。
// リストまたはタスクが見つからない場合はNotFound系のエラーを返します。
func (u *WeekListUsecase) MarkTask(ctx context.Context, listID uint, taskID string, marked bool) (*entity.WeekList, error) {
	list, err := u.repo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	idx := list.FindTask(taskID)
	if idx < 0 {
		return nil, ErrTaskNotFound
	}

	list.Tasks[idx].Marked = marked
	if marked {
		now := time.Now()
		list.Tasks[idx].CompletedAt = &now
	} else {
		list.Tasks[idx].CompletedAt = nil
	}

	if err := u.repo.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Complete はウィークリストをcompletedに遷移させます。
// activeからのみ有効で、completedは終端状態です。
func (u *WeekListUsecase) Complete(ctx context.Context, listID uint) (*entity.WeekList, error) {
	list, err := u.repo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsActive() {
		return nil, ErrWeekListNotActive
	}

	list.State = entity.StateCompleted
	if err := u.repo.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}
