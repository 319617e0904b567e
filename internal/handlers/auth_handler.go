package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	"go_task_quest/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	cfg     *config.Config
}

func NewAuthHandler(s service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: s, cfg: cfg}
}

// Register は新規ユーザーを登録する
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "Register")

	var req model.RegisterRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		logger.Warn("Registration failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User registered", slog.Uint64("user_id", uint64(user.ID)))
	webutil.RespondWithJSON(w, http.StatusCreated, model.RegisterResponse{
		Message: "User registered successfully",
		User:    user,
	}, logger)
}

// Login は認証に成功したらセッション Cookie をセットし、トークンも返す
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "Login")

	var req model.LoginRequest
	if !bindJSON(w, r, logger, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		// ログはサービス層で出力済み
		webutil.HandleError(w, logger, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(resp.AccessToken, time.Unix(resp.ExpiresAt, 0)))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// Logout はトークンを失効させ、Cookie を消す
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "Logout")

	session, err := middleware.GetSessionFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.Logout(r.Context(), session); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
	webutil.RespondWithJSON(w, http.StatusOK, model.SuccessResponse{Success: true, Message: "Logged out"}, logger)
}

// GetMe は認証済みユーザー自身の情報を返します
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, "GetMe")

	userID, logger, ok := requireUserID(w, r, logger)
	if !ok {
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.JWT.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.App.FrontendURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}
}
