package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"
)

type ScheduleHandler struct {
	service service.ScheduleService
	logger  *slog.Logger
}

func NewScheduleHandler(s service.ScheduleService, logger *slog.Logger) *ScheduleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleHandler{service: s, logger: logger}
}

// Generate は今日の予定を AI に作らせて保存する
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "GenerateSchedule")))
	if !ok {
		return
	}

	var req model.GenerateScheduleRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	resp, err := h.service.Generate(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Failed to generate schedule", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Schedule generated", slog.Uint64("schedule_id", uint64(resp.ScheduleID)))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// List は保存済みの予定を返す (?date=YYYY-MM-DD&limit=N)
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "ListSchedules")))
	if !ok {
		return
	}

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", "limit must be a positive integer", "limit", model.ErrInvalidInput))
			return
		}
		limit = n
	}

	schedules, err := h.service.List(r.Context(), userID, query.Get("date"), limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if schedules == nil {
		schedules = []model.Schedule{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.ListSchedulesResponse{Schedules: schedules}, logger)
}
