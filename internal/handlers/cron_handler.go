package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"
)

// CronHandler は外部スケジューラから夜間バッチを起動する
type CronHandler struct {
	service service.ReconcileService
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewCronHandler(s service.ReconcileService, logger *slog.Logger) *CronHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CronHandler{service: s, logger: logger, now: time.Now, timeout: config.DailyJobTimeout}
}

// DailyCleanup はリクエストの切断やタイムアウトに関係なく最後まで実行する。
// 上限は DailyJobTimeout で、打ち切られた場合は途中までの集計を 500 で返す
func (h *CronHandler) DailyCleanup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DailyCleanup"))

	// サーバーの WriteTimeout より長く走ることがある
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("Could not clear write deadline", slog.Any("error", err))
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	summary, err := h.service.RunDaily(ctx, h.now())
	if err != nil {
		logger.Error("Daily cleanup failed", slog.Any("error", err))
		if summary != nil {
			webutil.RespondWithJSON(w, http.StatusInternalServerError, summary, logger)
			return
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}
