package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"weeklist_backend/internal/feature/weeklist/usecase"
	jwtmw "weeklist_backend/internal/platform/jwt"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockGateUsecase はGateUsecaseインターフェースのモック実装です。
type mockGateUsecase struct {
	CheckQuotaFunc    func(ctx context.Context, userID uint) error
	CheckEditableFunc func(ctx context.Context, listID uint) error
	CheckActiveFunc   func(ctx context.Context, listID uint) error
}

func (m *mockGateUsecase) CheckQuota(ctx context.Context, userID uint) error {
	if m.CheckQuotaFunc != nil {
		return m.CheckQuotaFunc(ctx, userID)
	}
	return nil
}

func (m *mockGateUsecase) CheckEditable(ctx context.Context, listID uint) error {
	if m.CheckEditableFunc != nil {
		return m.CheckEditableFunc(ctx, listID)
	}
	return nil
}

func (m *mockGateUsecase) CheckActive(ctx context.Context, listID uint) error {
	if m.CheckActiveFunc != nil {
		return m.CheckActiveFunc(ctx, listID)
	}
	return nil
}

// serveGate はユーザーIDを仕込んだ上でゲート+終端ハンドラーを実行し、
// 終端まで到達したかを返します。
func serveGate(t *testing.T, gate gin.HandlerFunc, method, path string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()

	reached := false
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, uint(1))
		c.Next()
	})
	terminal := func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	}
	r.Handle(method, "/weeklist/:weekListId", gate, terminal)
	r.POST("/weeklist", gate, terminal)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w, &reached
}

// TestQuotaGate はクォータゲートの通過・超過・短絡を検証します。
func TestQuotaGate(t *testing.T) {
	tests := []struct {
		name           string
		checkErr       error
		expectedStatus int
		expectReached  bool
	}{
		{"under quota passes", nil, http.StatusOK, true},
		{"quota exceeded aborts with 400", usecase.ErrQuotaExceeded, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockGateUsecase{
				CheckQuotaFunc: func(ctx context.Context, userID uint) error { return tt.checkErr },
			}

			w, reached := serveGate(t, QuotaGate(uc), http.MethodPost, "/weeklist")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectReached, *reached, "handler reachability mismatch")
			if tt.checkErr != nil {
				assert.Contains(t, w.Body.String(), "quota_exceeded")
			}
		})
	}
}

// TestQuotaGate_MissingIdentity は認証ミドルウェアを経ていないリクエストが
// 401になることを検証します。
func TestQuotaGate_MissingIdentity(t *testing.T) {
	uc := &mockGateUsecase{}

	r := gin.New()
	r.POST("/weeklist", QuotaGate(uc), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/weeklist", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestEditWindowGate は編集ウィンドウゲートの分岐を検証します。
func TestEditWindowGate(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		checkErr       error
		expectedStatus int
		expectedCode   string
		expectReached  bool
	}{
		{"within window passes", "/weeklist/1", nil, http.StatusOK, "", true},
		{"missing list is 404", "/weeklist/1", usecase.ErrWeekListNotFound, http.StatusNotFound, "not_found", false},
		{"expired window is 400", "/weeklist/1", usecase.ErrEditWindowExpired, http.StatusBadRequest, "edit_window_expired", false},
		{"non-numeric id is 404", "/weeklist/abc", nil, http.StatusNotFound, "not_found", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockGateUsecase{
				CheckEditableFunc: func(ctx context.Context, listID uint) error { return tt.checkErr },
			}

			w, reached := serveGate(t, EditWindowGate(uc), http.MethodPut, tt.path)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectReached, *reached, "handler reachability mismatch")
			if tt.expectedCode != "" {
				assert.Contains(t, w.Body.String(), tt.expectedCode)
			}
		})
	}
}

// TestActiveStateGate は状態ゲートの分岐を検証します。
func TestActiveStateGate(t *testing.T) {
	tests := []struct {
		name           string
		checkErr       error
		expectedStatus int
		expectedCode   string
		expectReached  bool
	}{
		{"active list passes", nil, http.StatusOK, "", true},
		{"missing list is 404", usecase.ErrWeekListNotFound, http.StatusNotFound, "not_found", false},
		{"completed list is 400", usecase.ErrWeekListNotActive, http.StatusBadRequest, "not_active", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockGateUsecase{
				CheckActiveFunc: func(ctx context.Context, listID uint) error { return tt.checkErr },
			}

			w, reached := serveGate(t, ActiveStateGate(uc), http.MethodPost, "/weeklist/1")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectReached, *reached, "handler reachability mismatch")
			if tt.expectedCode != "" {
				assert.Contains(t, w.Body.String(), tt.expectedCode)
			}
		})
	}
}
