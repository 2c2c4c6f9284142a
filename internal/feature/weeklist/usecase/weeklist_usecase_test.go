package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"weeklist_backend/internal/feature/weeklist/domain/entity"
)

// mockWeekListRepository はWeekListRepositoryインターフェースのモック実装です。
type mockWeekListRepository struct {
	CreateFunc           func(ctx context.Context, list *entity.WeekList) error
	FindByIDFunc         func(ctx context.Context, id uint) (*entity.WeekList, error)
	FindByIDAndOwnerFunc func(ctx context.Context, id, ownerID uint) (*entity.WeekList, error)
	FindByOwnerFunc      func(ctx context.Context, ownerID uint) ([]entity.WeekList, error)
	FindFeedFunc         func(ctx context.Context, excludeOwnerID uint) ([]entity.WeekList, error)
	CountActiveFunc      func(ctx context.Context, ownerID uint) (int64, error)
	SaveFunc             func(ctx context.Context, list *entity.WeekList) error
	DeleteFunc           func(ctx context.Context, id uint) error
}

func (m *mockWeekListRepository) Create(ctx context.Context, list *entity.WeekList) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, list)
	}
	return nil
}

func (m *mockWeekListRepository) FindByID(ctx context.Context, id uint) (*entity.WeekList, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrWeekListNotFound
}

func (m *mockWeekListRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*entity.WeekList, error) {
	if m.FindByIDAndOwnerFunc != nil {
		return m.FindByIDAndOwnerFunc(ctx, id, ownerID)
	}
	return nil, ErrWeekListNotFound
}

func (m *mockWeekListRepository) FindByOwner(ctx context.Context, ownerID uint) ([]entity.WeekList, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockWeekListRepository) FindFeed(ctx context.Context, excludeOwnerID uint) ([]entity.WeekList, error) {
	if m.FindFeedFunc != nil {
		return m.FindFeedFunc(ctx, excludeOwnerID)
	}
	return nil, nil
}

func (m *mockWeekListRepository) CountActive(ctx context.Context, ownerID uint) (int64, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockWeekListRepository) Save(ctx context.Context, list *entity.WeekList) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, list)
	}
	return nil
}

func (m *mockWeekListRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// TestCheckQuota はアクティブなリストが2つ以上でErrQuotaExceededになることを検証します。
func TestCheckQuota(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		wantErr error
	}{
		{"no active lists", 0, nil},
		{"one active list", 1, nil},
		{"at the limit", 2, ErrQuotaExceeded},
		{"over the limit", 3, ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockWeekListRepository{
				CountActiveFunc: func(ctx context.Context, ownerID uint) (int64, error) {
					return tt.count, nil
				},
			}
			uc := NewWeekListUsecase(repo)

			err := uc.CheckQuota(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestCheckEditable は編集ウィンドウゲートの3分岐（不在・期限切れ・通過）を検証します。
func TestCheckEditable(t *testing.T) {
	tests := []struct {
		name     string
		findFunc func(ctx context.Context, id uint) (*entity.WeekList, error)
		wantErr  error
	}{
		{
			name: "not found",
			findFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
				return nil, ErrWeekListNotFound
			},
			wantErr: ErrWeekListNotFound,
		},
		{
			name: "created 25 hours ago",
			findFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
				return &entity.WeekList{ID: id, CreatedAt: time.Now().Add(-25 * time.Hour)}, nil
			},
			wantErr: ErrEditWindowExpired,
		},
		{
			name: "created an hour ago",
			findFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
				return &entity.WeekList{ID: id, CreatedAt: time.Now().Add(-time.Hour)}, nil
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewWeekListUsecase(&mockWeekListRepository{FindByIDFunc: tt.findFunc})

			err := uc.CheckEditable(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestCheckActive は状態ゲートの3分岐（不在・completed・active）を検証します。
func TestCheckActive(t *testing.T) {
	tests := []struct {
		name     string
		findFunc func(ctx context.Context, id uint) (*entity.WeekList, error)
		wantErr  error
	}{
		{
			name: "not found",
			findFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
				return nil, ErrWeekListNotFound
			},
			wantErr: ErrWeekListNotFound,
		},
		{
			name: "completed list",
			findFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
				return &entity.WeekList{ID: id, State: entity.StateCompleted}, nil
			},
			wantErr: ErrWeekListNotActive,
		},
		{
			name: "active list",
			findFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
				return &entity.WeekList{ID: id, State: entity.StateActive}, nil
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewWeekListUsecase(&mockWeekListRepository{FindByIDFunc: tt.findFunc})

			err := uc.CheckActive(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestCreate は新規リストがactive状態・未完了タスク・uuid付きで
// 永続化されることを検証します。
func TestCreate(t *testing.T) {
	var stored *entity.WeekList
	repo := &mockWeekListRepository{
		CreateFunc: func(ctx context.Context, list *entity.WeekList) error {
			list.ID = 1
			stored = list
			return nil
		},
	}
	uc := NewWeekListUsecase(repo)

	endDate := time.Now().Add(7 * 24 * time.Hour)
	list, err := uc.Create(context.Background(), 42, "this week", []string{"buy milk", "write report"}, endDate)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if stored == nil {
		t.Fatal("expected list to be persisted")
	}
	if list.UserID != 42 {
		t.Errorf("expected owner 42, got %d", list.UserID)
	}
	if list.State != entity.StateActive {
		t.Errorf("expected active state, got %s", list.State)
	}
	if len(list.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list.Tasks))
	}
	seen := map[string]bool{}
	for _, task := range list.Tasks {
		if task.ID == "" {
			t.Error("task id must be assigned")
		}
		if seen[task.ID] {
			t.Error("task ids must be unique")
		}
		seen[task.ID] = true
		if task.Marked {
			t.Error("new tasks must be unmarked")
		}
		if task.CompletedAt != nil {
			t.Error("new tasks must have nil completedAt")
		}
	}
}

// TestUpdate は説明とタスク列のみが置き換わり、オーナー・endDate・状態が
// 維持されることを検証します。
func TestUpdate(t *testing.T) {
	endDate := time.Now().Add(3 * 24 * time.Hour)
	existing := &entity.WeekList{
		ID:          1,
		UserID:      7,
		Description: "old",
		Tasks:       []entity.Task{{ID: "old-task", Description: "old task"}},
		EndDate:     endDate,
		State:       entity.StateActive,
	}

	var saved *entity.WeekList
	repo := &mockWeekListRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) {
			return existing, nil
		},
		SaveFunc: func(ctx context.Context, list *entity.WeekList) error {
			saved = list
			return nil
		},
	}
	uc := NewWeekListUsecase(repo)

	list, err := uc.Update(context.Background(), 1, "new description", []string{"task one", "task two"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if saved == nil {
		t.Fatal("expected list to be saved")
	}
	if list.Description != "new description" {
		t.Errorf("description not updated: %s", list.Description)
	}
	if len(list.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(list.Tasks))
	}
	if list.Tasks[0].ID == "old-task" {
		t.Error("replaced tasks must get fresh ids")
	}
	if list.UserID != 7 {
		t.Error("owner must not change")
	}
	if !list.EndDate.Equal(endDate) {
		t.Error("endDate must not change")
	}
	if list.State != entity.StateActive {
		t.Error("state must not change")
	}
}

// TestMarkTask はmarkedの設定とcompletedAtの連動を検証します。
func TestMarkTask(t *testing.T) {
	newList := func() *entity.WeekList {
		done := time.Now().Add(-time.Hour)
		return &entity.WeekList{
			ID:    1,
			State: entity.StateActive,
			Tasks: []entity.Task{
				{ID: "t1", Description: "unmarked task"},
				{ID: "t2", Description: "marked task", Marked: true, CompletedAt: &done},
			},
		}
	}

	t.Run("mark sets completedAt", func(t *testing.T) {
		list := newList()
		repo := &mockWeekListRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) { return list, nil },
		}
		uc := NewWeekListUsecase(repo)

		got, err := uc.MarkTask(context.Background(), 1, "t1", true)
		if err != nil {
			t.Fatalf("MarkTask failed: %v", err)
		}
		task := got.Tasks[0]
		if !task.Marked {
			t.Error("task should be marked")
		}
		if task.CompletedAt == nil {
			t.Error("completedAt must be set when marked")
		}
	})

	t.Run("unmark clears completedAt", func(t *testing.T) {
		list := newList()
		repo := &mockWeekListRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) { return list, nil },
		}
		uc := NewWeekListUsecase(repo)

		got, err := uc.MarkTask(context.Background(), 1, "t2", false)
		if err != nil {
			t.Fatalf("MarkTask failed: %v", err)
		}
		task := got.Tasks[1]
		if task.Marked {
			t.Error("task should be unmarked")
		}
		if task.CompletedAt != nil {
			t.Error("completedAt must be nil when unmarked")
		}
	})

	t.Run("unknown task id", func(t *testing.T) {
		list := newList()
		saved := false
		repo := &mockWeekListRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) { return list, nil },
			SaveFunc: func(ctx context.Context, l *entity.WeekList) error {
				saved = true
				return nil
			},
		}
		uc := NewWeekListUsecase(repo)

		_, err := uc.MarkTask(context.Background(), 1, "missing", true)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
		if saved {
			t.Error("nothing must be saved when the task is missing")
		}
	})

	t.Run("unknown list id", func(t *testing.T) {
		uc := NewWeekListUsecase(&mockWeekListRepository{})

		_, err := uc.MarkTask(context.Background(), 99, "t1", true)
		if !errors.Is(err, ErrWeekListNotFound) {
			t.Errorf("expected ErrWeekListNotFound, got %v", err)
		}
	})
}

// TestComplete はactiveからcompletedへの遷移と、completedが終端である
// ことを検証します。
func TestComplete(t *testing.T) {
	t.Run("active transitions to completed", func(t *testing.T) {
		list := &entity.WeekList{ID: 1, State: entity.StateActive}
		var saved *entity.WeekList
		repo := &mockWeekListRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) { return list, nil },
			SaveFunc: func(ctx context.Context, l *entity.WeekList) error {
				saved = l
				return nil
			},
		}
		uc := NewWeekListUsecase(repo)

		got, err := uc.Complete(context.Background(), 1)
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if got.State != entity.StateCompleted {
			t.Errorf("expected completed state, got %s", got.State)
		}
		if saved == nil {
			t.Error("transition must be persisted")
		}
	})

	t.Run("completed is terminal", func(t *testing.T) {
		list := &entity.WeekList{ID: 1, State: entity.StateCompleted}
		repo := &mockWeekListRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.WeekList, error) { return list, nil },
		}
		uc := NewWeekListUsecase(repo)

		_, err := uc.Complete(context.Background(), 1)
		if !errors.Is(err, ErrWeekListNotActive) {
			t.Errorf("expected ErrWeekListNotActive, got %v", err)
		}
	})
}
