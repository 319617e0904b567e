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

func newAuthRouter(svc *mocks.AuthService, userID uint) http.Handler {
	h := handlers.NewAuthHandler(svc, testConfig())
	r := chi.NewRouter()
	r.Post("/api/register", h.Register)
	r.Post("/api/login", h.Login)
	r.Group(func(r chi.Router) {
		if userID != 0 {
			r.Use(withUser(userID))
		}
		r.Post("/api/logout", h.Logout)
		r.Get("/api/me", h.GetMe)
	})
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	validReq := model.RegisterRequest{Name: "Asha", Email: "asha@example.com", Username: "asha", Password: "secret123"}

	tests := []struct {
		name        string
		body        interface{}
		setupMock   func(svc *mocks.AuthService)
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name: "正常系: 201 とユーザーを返す",
			body: validReq,
			setupMock: func(svc *mocks.AuthService) {
				svc.On("Register", mock.Anything, &validReq).Return(&model.User{ID: 1, Name: "Asha", Email: validReq.Email, Username: "asha", Level: 1}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:        "異常系: メールアドレスがない",
			body:        model.RegisterRequest{Name: "Asha", Username: "asha", Password: "secret123"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "Email is required",
		},
		{
			name:       "異常系: 壊れた JSON",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST_BODY",
		},
		{
			name: "異常系: 登録済みのメールアドレス",
			body: validReq,
			setupMock: func(svc *mocks.AuthService) {
				svc.On("Register", mock.Anything, &validReq).
					Return(nil, model.NewAppError("DUPLICATE_EMAIL", "Email already exists", "email", model.ErrConflict)).Once()
			},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "DUPLICATE_EMAIL",
			wantMessage: "Email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewAuthService(t)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rr := doRequest(t, newAuthRouter(svc, 0), http.MethodPost, "/api/register", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				detail := decodeError(t, rr)
				assert.Equal(t, tt.wantCode, detail.Code)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, detail.Message)
				}
				return
			}
			var resp model.RegisterResponse
			decodeBody(t, rr, &resp)
			assert.Equal(t, "User registered successfully", resp.Message)
			require.NotNil(t, resp.User)
			assert.Equal(t, uint(1), resp.User.ID)
			assert.NotContains(t, rr.Body.String(), "password")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	req := model.LoginRequest{Email: "asha@example.com", Password: "secret123"}
	expiresAt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("正常系: HttpOnly Cookie をセットしてトークンを返す", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("Login", mock.Anything, &req).Return(&model.LoginResponse{
			AccessToken: "signed.jwt.token",
			ExpiresAt:   expiresAt.Unix(),
			User:        &model.User{ID: 1, Email: req.Email},
		}, nil).Once()

		rr := doRequest(t, newAuthRouter(svc, 0), http.MethodPost, "/api/login", req)
		require.Equal(t, http.StatusOK, rr.Code)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Equal(t, "signed.jwt.token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, "/", cookies[0].Path)

		var resp model.LoginResponse
		decodeBody(t, rr, &resp)
		assert.Equal(t, "signed.jwt.token", resp.AccessToken)
	})

	t.Run("異常系: 認証失敗は 401 で Cookie なし", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("Login", mock.Anything, &req).
			Return(nil, model.NewAppError("AUTHENTICATION_FAILED", "Invalid email or password", "", model.ErrUnauthorized)).Once()

		rr := doRequest(t, newAuthRouter(svc, 0), http.MethodPost, "/api/login", req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
		assert.Equal(t, "AUTHENTICATION_FAILED", decodeError(t, rr).Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("正常系: セッションを失効させて Cookie を消す", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("Logout", mock.Anything, mock.MatchedBy(func(s *model.Session) bool {
			return s.UserID == 7 && s.ID == "jti-test"
		})).Return(nil).Once()

		rr := doRequest(t, newAuthRouter(svc, 7), http.MethodPost, "/api/logout", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("異常系: 未ログイン", func(t *testing.T) {
		rr := doRequest(t, newAuthRouter(mocks.NewAuthService(t), 0), http.MethodPost, "/api/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_GetMe(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("GetMe", mock.Anything, uint(7)).Return(&model.User{ID: 7, Username: "asha", XP: 120, Level: 2}, nil).Once()

		rr := doRequest(t, newAuthRouter(svc, 7), http.MethodGet, "/api/me", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var user model.User
		decodeBody(t, rr, &user)
		assert.Equal(t, 120, user.XP)
	})

	t.Run("異常系: ユーザーが消えている", func(t *testing.T) {
		svc := mocks.NewAuthService(t)
		svc.On("GetMe", mock.Anything, uint(7)).
			Return(nil, model.NewAppError("USER_NOT_FOUND", "User not found", "", model.ErrNotFound)).Once()

		rr := doRequest(t, newAuthRouter(svc, 7), http.MethodGet, "/api/me", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("異常系: 未ログイン", func(t *testing.T) {
		rr := doRequest(t, newAuthRouter(mocks.NewAuthService(t), 0), http.MethodGet, "/api/me", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rr).Code)
	})
}
