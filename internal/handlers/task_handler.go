package handlers

import (
	"log/slog"
	"net/http"

	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	service service.TaskService
	logger  *slog.Logger
}

func NewTaskHandler(s service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{service: s, logger: logger}
}

// CreateTask は今日のタスクを追加する
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "CreateTask")))
	if !ok {
		return
	}

	var req model.CreateTaskRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	task, err := h.service.CreateTask(r.Context(), userID, &req)
	if err != nil {
		logger.Warn("Failed to create task", slog.Any("error", err), slog.String("title", req.Title))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Task created", slog.Uint64("task_id", uint64(task.ID)), slog.Int("xp_reward", task.XPReward))
	webutil.RespondWithJSON(w, http.StatusCreated, task, logger)
}

// ListTasks は自分のタスクを新しい順に返す
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "ListTasks")))
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), userID)
	if err != nil {
		logger.Error("Failed to list tasks", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, tasks, logger)
}

// CompleteTask はタスクを完了にして XP とストリークを反映する
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "CompleteTask")))
	if !ok {
		return
	}

	taskID, err := webutil.ParseUintParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Uint64("task_id", uint64(taskID)))

	resp, err := h.service.CompleteTask(r.Context(), userID, taskID)
	if err != nil {
		logger.Warn("Failed to complete task", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Task completed", slog.Int("xp_gained", resp.XPGained), slog.Int("streak", resp.NewStreak))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// DeleteTask は報酬なしでタスクを消す
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "DeleteTask")))
	if !ok {
		return
	}

	taskID, err := webutil.ParseUintParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), userID, taskID); err != nil {
		logger.Warn("Failed to delete task", slog.Any("error", err), slog.Uint64("task_id", uint64(taskID)))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.SuccessResponse{Success: true, Message: "Task deleted"}, logger)
}

// ValidateTask は AI にタスクの妥当性を判定させる。判定できなければ isRelevant=false
func (h *TaskHandler) ValidateTask(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ValidateTask"))

	var req model.ValidateTaskRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	result := h.service.ValidateTask(r.Context(), &req)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
