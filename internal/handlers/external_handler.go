package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"
)

// ExternalHandler は LeetCode と名言 API の中継
type ExternalHandler struct {
	service service.StatsService
	logger  *slog.Logger
}

func NewExternalHandler(s service.StatsService, logger *slog.Logger) *ExternalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExternalHandler{service: s, logger: logger}
}

func (h *ExternalHandler) LeetCode(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "LeetCode"))

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", "Username is required", "username", model.ErrInvalidInput))
		return
	}

	stats, err := h.service.LeetCodeStats(r.Context(), username)
	if err != nil {
		logger.Error("LeetCode lookup failed", slog.Any("error", err), slog.String("username", username))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// Quote は常に 200 を返す
func (h *ExternalHandler) Quote(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Quote"))
	webutil.RespondWithJSON(w, http.StatusOK, model.QuoteResponse{Quote: h.service.Quote(r.Context())}, logger)
}
