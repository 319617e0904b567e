//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error)
	// FindByIDForUpdate は行ロックを取って読む (トランザクション内で使う)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID uint, fields map[string]interface{}) error
	SaveProgress(ctx context.Context, db *gorm.DB, user *model.User) error
	// DebitXP は残高が足りるときだけ XP を減らす。足りなければ false
	DebitXP(ctx context.Context, db *gorm.DB, userID uint, amount int) (bool, error)
	ListLeaderboard(ctx context.Context, db *gorm.DB) ([]model.User, error)
	ListIDs(ctx context.Context, db *gorm.DB) ([]uint, error)
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			logger.Warn("Duplicate key error on create user",
				"error", result.Error,
				"email", user.Email,
				"username", user.Username,
			)
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB", "error", result.Error, "email", user.Email)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	return r.findOne(ctx, db.WithContext(ctx).Where("id = ?", userID), "FindByID")
}

func (r *gormUserRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	q := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID)
	return r.findOne(ctx, q, "FindByIDForUpdate")
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	return r.findOne(ctx, db.WithContext(ctx).Where("email = ?", email), "FindByEmail")
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*model.User, error) {
	return r.findOne(ctx, db.WithContext(ctx).Where("username = ?", username), "FindByUsername")
}

func (r *gormUserRepository) findOne(ctx context.Context, q *gorm.DB, op string) (*model.User, error) {
	var user model.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding user in DB", "op", op, "error", err)
		return nil, fmt.Errorf("gormUserRepository.%s: %w", op, err)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdateProfile(ctx context.Context, db *gorm.DB, userID uint, fields map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(fields) == 0 {
		return nil
	}

	result := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			logger.Warn("Duplicate key error on update user", "error", result.Error, "user_id", userID)
			return model.ErrConflict
		}
		logger.Error("Error updating user profile", "error", result.Error, "user_id", userID)
		return fmt.Errorf("gormUserRepository.UpdateProfile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SaveProgress は進捗系のカラムだけを書き戻す
func (r *gormUserRepository) SaveProgress(ctx context.Context, db *gorm.DB, user *model.User) error {
	result := db.WithContext(ctx).Model(user).
		Select("xp", "level", "current_streak", "longest_streak", "last_completed_at", "last_reconciled_on").
		Updates(user)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error saving user progress", "error", result.Error, "user_id", user.ID)
		return fmt.Errorf("gormUserRepository.SaveProgress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) DebitXP(ctx context.Context, db *gorm.DB, userID uint, amount int) (bool, error) {
	result := db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND xp >= ?", userID, amount).
		Update("xp", gorm.Expr("xp - ?", amount))
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error debiting XP", "error", result.Error, "user_id", userID, "amount", amount)
		return false, fmt.Errorf("gormUserRepository.DebitXP: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormUserRepository) ListLeaderboard(ctx context.Context, db *gorm.DB) ([]model.User, error) {
	var users []model.User
	err := db.WithContext(ctx).
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "user_id", "title", "difficulty", "xp_reward", "completed").Order("id")
		}).
		Order("xp DESC").Order("id").
		Find(&users).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing leaderboard", "error", err)
		return nil, fmt.Errorf("gormUserRepository.ListLeaderboard: %w", err)
	}
	return users, nil
}

func (r *gormUserRepository) ListIDs(ctx context.Context, db *gorm.DB) ([]uint, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(&model.User{}).Order("id").Pluck("id", &ids).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing user ids", "error", err)
		return nil, fmt.Errorf("gormUserRepository.ListIDs: %w", err)
	}
	return ids, nil
}
