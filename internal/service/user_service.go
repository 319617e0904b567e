//go:generate mockery --name UserService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type UserService interface {
	UpdateProfile(ctx context.Context, userID uint, req *model.UpdateUserRequest) (*model.User, error)
	Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
	GetPublicProfile(ctx context.Context, email string) (*model.PublicProfile, error)
	UploadImage(ctx context.Context, userID uint, dataURL string) (string, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	images   ImageStore
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository, images ImageStore) UserService {
	return &userService{db: db, userRepo: userRepo, images: images}
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *model.UpdateUserRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var updated *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "User not found", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile", "", err)
		}

		fields := map[string]interface{}{}
		if req.Email != nil && *req.Email != current.Email {
			if _, err := s.userRepo.FindByEmail(ctx, tx, *req.Email); err == nil {
				return model.NewAppError("DUPLICATE_EMAIL", "Email already in use", "email", model.ErrConflict)
			} else if !errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile", "", err)
			}
			fields["email"] = *req.Email
		}
		if req.Username != nil && *req.Username != current.Username {
			if _, err := s.userRepo.FindByUsername(ctx, tx, *req.Username); err == nil {
				return model.NewAppError("DUPLICATE_USERNAME", "Username already taken", "username", model.ErrConflict)
			} else if !errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile", "", err)
			}
			fields["username"] = *req.Username
		}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if req.Image != nil {
			fields["image"] = *req.Image
		}
		if req.GithubID != nil {
			fields["github_id"] = *req.GithubID
		}
		if req.LeetcodeID != nil {
			fields["leetcode_id"] = *req.LeetcodeID
		}

		if err := s.userRepo.UpdateProfile(ctx, tx, userID, fields); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_ENTRY", "Email or username already taken", "email,username", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile", "", err)
		}

		updated, err = s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to update profile", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Profile updated", "user_id", userID)
	return updated, nil
}

func (s *userService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	users, err := s.userRepo.ListLeaderboard(ctx, s.db)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch users", "", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		tasks := make([]model.LeaderboardTask, 0, len(u.Tasks))
		for _, t := range u.Tasks {
			tasks = append(tasks, model.LeaderboardTask{
				ID:         t.ID,
				Title:      t.Title,
				Difficulty: t.Difficulty,
				XPReward:   t.XPReward,
				Completed:  t.Completed,
			})
		}
		entries = append(entries, model.LeaderboardEntry{
			ID:            u.ID,
			Name:          u.Name,
			Username:      u.Username,
			Email:         u.Email,
			Image:         u.Image,
			XP:            u.XP,
			Level:         u.Level,
			CurrentStreak: u.CurrentStreak,
			LongestStreak: u.LongestStreak,
			Tasks:         tasks,
		})
	}
	return entries, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, email string) (*model.PublicProfile, error) {
	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "User not found", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Internal Server Error", "", err)
	}
	return model.NewPublicProfile(user), nil
}

func (s *userService) UploadImage(ctx context.Context, userID uint, dataURL string) (string, error) {
	logger := middleware.GetLogger(ctx)

	contentType, data, err := decodeDataURL(dataURL)
	if err != nil {
		logger.Warn("Rejected image upload", "error", err)
		return "", model.NewAppError("INVALID_IMAGE", "Invalid image", "image", model.ErrInvalidInput)
	}

	key := fmt.Sprintf("user_profiles/%d/%s.%s", userID, uuid.NewString(), imageExtensions[contentType])
	url, err := s.images.Upload(ctx, key, contentType, data)
	if err != nil {
		logger.Error("Image upload failed", "error", err, "key", key)
		return "", model.NewAppError("UPLOAD_FAILED", "Image upload failed", "", model.ErrUpstream)
	}

	logger.Info("Image uploaded", "key", key, "bytes", len(data))
	return url, nil
}

// decodeDataURL は "data:image/png;base64,..." を分解する
func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("missing data URL payload")
	}
	contentType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data URL must be base64 encoded")
	}
	if _, allowed := imageExtensions[contentType]; !allowed {
		return "", nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return "", nil, errors.New("image too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty image")
	}
	return contentType, data, nil
}
