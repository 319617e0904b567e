package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"go_task_quest/internal/handlers"
	"go_task_quest/internal/model"
	"go_task_quest/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTaskRouter(svc *mocks.TaskService, userID uint) http.Handler {
	h := handlers.NewTaskHandler(svc, testLogger)
	r := chi.NewRouter()
	r.Post("/api/tasks/validate", h.ValidateTask)
	r.Group(func(r chi.Router) {
		if userID != 0 {
			r.Use(withUser(userID))
		}
		r.Post("/api/tasks", h.CreateTask)
		r.Get("/api/tasks/user", h.ListTasks)
		r.Patch("/api/tasks/{id}", h.CompleteTask)
		r.Delete("/api/tasks/delete-only/{id}", h.DeleteTask)
	})
	return r
}

func TestTaskHandler_CreateTask(t *testing.T) {
	validReq := model.CreateTaskRequest{Title: "Solve 2 coding problems", Difficulty: model.DifficultyMedium, Priority: model.PriorityHigh}
	due := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		userID      uint
		body        interface{}
		setupMock   func(svc *mocks.TaskService)
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:   "正常系: 201",
			userID: 3,
			body:   validReq,
			setupMock: func(svc *mocks.TaskService) {
				svc.On("CreateTask", mock.Anything, uint(3), &validReq).Return(&model.Task{
					ID: 11, UserID: 3, Title: validReq.Title, Difficulty: validReq.Difficulty, Priority: validReq.Priority, XPReward: 25, DueDate: &due,
				}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "異常系: 未ログイン",
			body:       validReq,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:        "異常系: タイトルがない",
			userID:      3,
			body:        model.CreateTaskRequest{Difficulty: model.DifficultyEasy, Priority: model.PriorityLow},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "Title is required",
		},
		{
			name:        "異常系: 難易度が不正",
			userID:      3,
			body:        map[string]string{"title": "x", "difficulty": "EPIC", "priority": "LOW"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "Difficulty must be one of [EASY MEDIUM HARD]",
		},
		{
			name:       "異常系: 未知のフィールド",
			userID:     3,
			body:       map[string]interface{}{"title": "x", "difficulty": "EASY", "priority": "LOW", "xpReward": 9999},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST_BODY",
		},
		{
			name:   "異常系: AI に却下された",
			userID: 3,
			body:   validReq,
			setupMock: func(svc *mocks.TaskService) {
				svc.On("CreateTask", mock.Anything, uint(3), &validReq).
					Return(nil, model.NewAppError("TASK_REJECTED", model.ReasonDifficultyMismatch, "difficulty", model.ErrInvalidInput)).Once()
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "TASK_REJECTED",
			wantMessage: "Difficulty mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewTaskService(t)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rr := doRequest(t, newTaskRouter(svc, tt.userID), http.MethodPost, "/api/tasks", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				detail := decodeError(t, rr)
				assert.Equal(t, tt.wantCode, detail.Code)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, detail.Message)
				}
				return
			}
			var task model.Task
			decodeBody(t, rr, &task)
			assert.Equal(t, 25, task.XPReward)
			require.NotNil(t, task.DueDate)
			assert.True(t, due.Equal(*task.DueDate))
		})
	}
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Run("正常系: タスクがなければ空配列", func(t *testing.T) {
		svc := mocks.NewTaskService(t)
		svc.On("ListTasks", mock.Anything, uint(3)).Return(nil, nil).Once()

		rr := doRequest(t, newTaskRouter(svc, 3), http.MethodGet, "/api/tasks/user", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("正常系", func(t *testing.T) {
		svc := mocks.NewTaskService(t)
		svc.On("ListTasks", mock.Anything, uint(3)).Return([]model.Task{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}, nil).Once()

		rr := doRequest(t, newTaskRouter(svc, 3), http.MethodGet, "/api/tasks/user", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var tasks []model.Task
		decodeBody(t, rr, &tasks)
		require.Len(t, tasks, 2)
		assert.Equal(t, uint(2), tasks[0].ID)
	})
}

func TestTaskHandler_CompleteTask(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setupMock  func(svc *mocks.TaskService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "正常系: XP とストリークを返す",
			path: "/api/tasks/11",
			setupMock: func(svc *mocks.TaskService) {
				svc.On("CompleteTask", mock.Anything, uint(3), uint(11)).
					Return(&model.CompleteTaskResponse{Success: true, XPGained: 25, NewStreak: 4, Level: 2}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "異常系: ID が数値でない",
			path:       "/api/tasks/abc",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_URL_PARAM",
		},
		{
			name: "異常系: 他人のタスク",
			path: "/api/tasks/12",
			setupMock: func(svc *mocks.TaskService) {
				svc.On("CompleteTask", mock.Anything, uint(3), uint(12)).
					Return(nil, model.NewAppError("FORBIDDEN", "Forbidden", "", model.ErrForbidden)).Once()
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name: "異常系: 存在しない",
			path: "/api/tasks/13",
			setupMock: func(svc *mocks.TaskService) {
				svc.On("CompleteTask", mock.Anything, uint(3), uint(13)).
					Return(nil, model.NewAppError("TASK_NOT_FOUND", "Task not found", "", model.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "TASK_NOT_FOUND",
		},
		{
			name: "異常系: 完了済み",
			path: "/api/tasks/14",
			setupMock: func(svc *mocks.TaskService) {
				svc.On("CompleteTask", mock.Anything, uint(3), uint(14)).
					Return(nil, model.NewAppError("TASK_ALREADY_COMPLETED", "Task already completed", "", model.ErrConflict)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "TASK_ALREADY_COMPLETED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewTaskService(t)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rr := doRequest(t, newTaskRouter(svc, 3), http.MethodPatch, tt.path, nil)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var resp model.CompleteTaskResponse
			decodeBody(t, rr, &resp)
			assert.Equal(t, model.CompleteTaskResponse{Success: true, XPGained: 25, NewStreak: 4, Level: 2}, resp)
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		svc := mocks.NewTaskService(t)
		svc.On("DeleteTask", mock.Anything, uint(3), uint(11)).Return(nil).Once()

		rr := doRequest(t, newTaskRouter(svc, 3), http.MethodDelete, "/api/tasks/delete-only/11", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"message":"Task deleted"}`, rr.Body.String())
	})

	t.Run("異常系: ID が 0", func(t *testing.T) {
		rr := doRequest(t, newTaskRouter(mocks.NewTaskService(t), 3), http.MethodDelete, "/api/tasks/delete-only/0", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskHandler_ValidateTask(t *testing.T) {
	req := model.ValidateTaskRequest{Title: "Meditate 10 minutes", Difficulty: model.DifficultyEasy}

	t.Run("正常系: 判定結果をそのまま返す", func(t *testing.T) {
		svc := mocks.NewTaskService(t)
		svc.On("ValidateTask", mock.Anything, &req).
			Return(model.ValidationResult{IsRelevant: true, Reason: model.ReasonTaskValid}).Once()

		rr := doRequest(t, newTaskRouter(svc, 0), http.MethodPost, "/api/tasks/validate", req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"isRelevant":true,"reason":"Task valid"}`, rr.Body.String())
	})

	t.Run("異常系: 難易度がない", func(t *testing.T) {
		rr := doRequest(t, newTaskRouter(mocks.NewTaskService(t), 0), http.MethodPost, "/api/tasks/validate",
			map[string]string{"title": "Meditate"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Difficulty is required", decodeError(t, rr).Message)
	})
}
