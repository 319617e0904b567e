//go:generate mockery --name AuthService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, session *model.Session) error
	GetMe(ctx context.Context, userID uint) (*model.User, error)
}

// SessionRevoker はログアウト時にトークンを失効させる
type SessionRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	sessions SessionRevoker
	mailer   Mailer
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, sessions SessionRevoker, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		sessions: sessions,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	_, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err == nil {
		logger.Warn("Email already exists", "email", req.Email)
		return nil, model.NewAppError("DUPLICATE_EMAIL", "Email already exists", "email", model.ErrConflict)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}

	_, err = s.userRepo.FindByUsername(ctx, s.db, req.Username)
	if err == nil {
		logger.Warn("Username already taken", "username", req.Username)
		return nil, model.NewAppError("DUPLICATE_USERNAME", "Username already taken", "username", model.ErrConflict)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashed),
		Image:        req.Image,
		Level:        1,
	}
	if err := s.userRepo.Create(ctx, s.db, user); err != nil {
		if errors.Is(err, model.ErrConflict) {
			// 事前チェックと作成の間に同じ値で登録された
			return nil, model.NewAppError("DUPLICATE_ENTRY", "Email or username already taken", "email,username", model.ErrConflict)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}

	subject, body := welcomeMail(s.cfg.App.Name, s.cfg.App.FrontendURL, user.Name)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		// 登録自体は成功扱い
		logger.Warn("Failed to send welcome email", "error", err, "user_id", user.ID)
	}

	logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)
	invalid := model.NewAppError("AUTHENTICATION_FAILED", "Invalid email or password", "", model.ErrUnauthorized)

	user, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, invalid
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.ID)
		return nil, invalid
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.JWT.AccessTokenTTL)
	claims := &model.SessionClaims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.ID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}

	logger.Info("Login successful", "user_id", user.ID)
	return &model.LoginResponse{AccessToken: signed, ExpiresAt: expiresAt.Unix(), User: user}, nil
}

func (s *authService) Logout(ctx context.Context, session *model.Session) error {
	if err := s.sessions.Revoke(ctx, session.ID, time.Unix(session.ExpiresAt, 0)); err != nil {
		middleware.GetLogger(ctx).Error("Failed to revoke session", "error", err, "user_id", session.UserID)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to log out", "", err)
	}
	return nil
}

func (s *authService) GetMe(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "User not found", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}
	return user, nil
}
