package handlers

import (
	"log/slog"
	"net/http"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/webutil"
)

// bindJSON はボディのデコードとバリデーションを行う。失敗時はレスポンスを書いて false を返す
func bindJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", slog.Any("error", err))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "Invalid request body", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return false
	}

	if err := webutil.Validator.Struct(dst); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, webutil.NewValidationError(err))
		return false
	}
	return true
}

// requireUserID はセッションのユーザーIDを取り出す。なければ 401 を書いて false を返す
func requireUserID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uint, *slog.Logger, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return 0, logger, false
	}
	return userID, logger.With(slog.Uint64("user_id", uint64(userID))), true
}

// requestLogger はリクエストのロガーにハンドラ名を付ける
func requestLogger(r *http.Request, handler string) *slog.Logger {
	return middleware.GetLogger(r.Context()).With(slog.String("handler", handler))
}
