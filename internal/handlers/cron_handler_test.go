package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go_task_quest/internal/handlers"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCronRouter(svc *mocks.ReconcileService, secret string) http.Handler {
	h := handlers.NewCronHandler(svc, testLogger)
	r := chi.NewRouter()
	r.With(middleware.CronSecretAuth(secret)).Get("/api/cron/daily-cleanup", h.DailyCleanup)
	return r
}

func cronRequest(authorization string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/daily-cleanup", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func TestCronHandler_DailyCleanup(t *testing.T) {
	t.Run("正常系: 集計を返す", func(t *testing.T) {
		svc := mocks.NewReconcileService(t)
		svc.On("RunDaily", mock.Anything, mock.AnythingOfType("time.Time")).Return(&model.CleanupSummary{
			Success: true, Day: "2025-03-10", Users: 3, Processed: 3, StreaksIncremented: 1, StreaksReset: 2, XPAwarded: 35, TasksDeleted: 4,
		}, nil).Once()

		rr := httptest.NewRecorder()
		newCronRouter(svc, "s3cret").ServeHTTP(rr, cronRequest("Bearer s3cret"))
		require.Equal(t, http.StatusOK, rr.Code)

		var summary model.CleanupSummary
		decodeBody(t, rr, &summary)
		assert.True(t, summary.Success)
		assert.Equal(t, 35, summary.XPAwarded)
	})

	t.Run("異常系: シークレットが違う", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newCronRouter(mocks.NewReconcileService(t), "s3cret").ServeHTTP(rr, cronRequest("Bearer wrong"))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("異常系: ヘッダーがない", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newCronRouter(mocks.NewReconcileService(t), "s3cret").ServeHTTP(rr, cronRequest(""))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("異常系: シークレット未設定なら常に拒否", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newCronRouter(mocks.NewReconcileService(t), "").ServeHTTP(rr, cronRequest("Bearer "))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("正常系: リクエストの期限が切れていても最後まで実行する", func(t *testing.T) {
		svc := mocks.NewReconcileService(t)
		svc.On("RunDaily", mock.MatchedBy(func(ctx context.Context) bool {
			deadline, ok := ctx.Deadline()
			return ctx.Err() == nil && ok && time.Until(deadline) > time.Minute
		}), mock.AnythingOfType("time.Time")).Return(&model.CleanupSummary{Success: true, Users: 2, Processed: 2}, nil).Once()

		reqCtx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		req := cronRequest("Bearer s3cret").WithContext(reqCtx)

		rr := httptest.NewRecorder()
		newCronRouter(svc, "s3cret").ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var summary model.CleanupSummary
		decodeBody(t, rr, &summary)
		assert.Equal(t, 2, summary.Processed)
	})

	t.Run("異常系: 打ち切られた場合は途中までの集計を返す", func(t *testing.T) {
		svc := mocks.NewReconcileService(t)
		svc.On("RunDaily", mock.Anything, mock.Anything).Return(&model.CleanupSummary{
			Day: "2025-03-10", Users: 5, Processed: 3, Interrupted: true,
		}, model.NewAppError("INTERNAL_SERVER_ERROR", "Cron job interrupted", "", context.DeadlineExceeded)).Once()

		rr := httptest.NewRecorder()
		newCronRouter(svc, "s3cret").ServeHTTP(rr, cronRequest("Bearer s3cret"))
		require.Equal(t, http.StatusInternalServerError, rr.Code)

		var summary model.CleanupSummary
		decodeBody(t, rr, &summary)
		assert.False(t, summary.Success)
		assert.True(t, summary.Interrupted)
		assert.Equal(t, 3, summary.Processed)
		assert.Equal(t, 5, summary.Users)
	})

	t.Run("異常系: バッチの失敗", func(t *testing.T) {
		svc := mocks.NewReconcileService(t)
		svc.On("RunDaily", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		rr := httptest.NewRecorder()
		newCronRouter(svc, "s3cret").ServeHTTP(rr, cronRequest("Bearer s3cret"))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
