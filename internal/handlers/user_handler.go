package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	service service.UserService
	logger  *slog.Logger
}

func NewUserHandler(s service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{service: s, logger: logger}
}

// Leaderboard は XP 順のユーザー一覧 (認証不要)
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Leaderboard"))

	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		logger.Error("Failed to load leaderboard", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, entries, logger)
}

// GetProfile はメールアドレスで公開プロフィールを返す
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProfile"))

	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_URL_PARAM", "Email is required", "email", model.ErrInvalidInput))
		return
	}

	profile, err := h.service.GetPublicProfile(r.Context(), email)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

// UpdateProfile は自分のプロフィールを部分更新する
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "UpdateProfile")))
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		logger.Warn("Profile update failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Profile updated")
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// UploadImage は data URL の画像を保存して URL を返す
func (h *UserHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, logger, ok := requireUserID(w, r, h.logger.With(slog.String("handler", "UploadImage")))
	if !ok {
		return
	}

	var req model.UploadImageRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	url, err := h.service.UploadImage(r.Context(), userID, req.Image)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.UploadImageResponse{URL: url}, logger)
}
