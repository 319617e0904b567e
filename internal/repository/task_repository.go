//go:generate mockery --name TaskRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository interface {
	Create(ctx context.Context, db *gorm.DB, task *model.Task) error
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, taskID uint) (*model.Task, error)
	FindByID(ctx context.Context, db *gorm.DB, taskID uint) (*model.Task, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]model.Task, error)
	ListOpenByUser(ctx context.Context, db *gorm.DB, userID uint) ([]model.Task, error)
	MarkCompleted(ctx context.Context, db *gorm.DB, taskID uint, at time.Time, credited bool) error
	Delete(ctx context.Context, db *gorm.DB, taskID uint) error
	DeleteByIDs(ctx context.Context, db *gorm.DB, userID uint, taskIDs []uint) (int64, error)
	// DeleteExpiredByUser は期限が now より前のタスクを完了状態に関係なく消す (期限ちょうどは残す)
	DeleteExpiredByUser(ctx context.Context, db *gorm.DB, userID uint, now time.Time) (int64, error)
}

type gormTaskRepository struct{}

func NewGormTaskRepository() TaskRepository {
	return &gormTaskRepository{}
}

func (r *gormTaskRepository) Create(ctx context.Context, db *gorm.DB, task *model.Task) error {
	if err := db.WithContext(ctx).Create(task).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating task in DB", "error", err, "user_id", task.UserID)
		return fmt.Errorf("gormTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *gormTaskRepository) FindByID(ctx context.Context, db *gorm.DB, taskID uint) (*model.Task, error) {
	return r.find(ctx, db.WithContext(ctx), taskID, "FindByID")
}

func (r *gormTaskRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, taskID uint) (*model.Task, error) {
	return r.find(ctx, db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), taskID, "FindByIDForUpdate")
}

func (r *gormTaskRepository) find(ctx context.Context, q *gorm.DB, taskID uint, op string) (*model.Task, error) {
	var task model.Task
	if err := q.Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding task in DB", "op", op, "error", err, "task_id", taskID)
		return nil, fmt.Errorf("gormTaskRepository.%s: %w", op, err)
	}
	return &task, nil
}

func (r *gormTaskRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&tasks).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormTaskRepository.ListByUser: %w", err)
	}
	return tasks, nil
}

func (r *gormTaskRepository) ListOpenByUser(ctx context.Context, db *gorm.DB, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := db.WithContext(ctx).
		Where("user_id = ? AND completed = ?", userID, false).
		Order("created_at").Order("id").
		Find(&tasks).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing open tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormTaskRepository.ListOpenByUser: %w", err)
	}
	return tasks, nil
}

func (r *gormTaskRepository) MarkCompleted(ctx context.Context, db *gorm.DB, taskID uint, at time.Time, credited bool) error {
	result := db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND completed = ?", taskID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
			"xp_credited":  credited,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error marking task completed", "error", result.Error, "task_id", taskID)
		return fmt.Errorf("gormTaskRepository.MarkCompleted: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrConflict
	}
	return nil
}

func (r *gormTaskRepository) Delete(ctx context.Context, db *gorm.DB, taskID uint) error {
	result := db.WithContext(ctx).Delete(&model.Task{}, taskID)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting task", "error", result.Error, "task_id", taskID)
		return fmt.Errorf("gormTaskRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormTaskRepository) DeleteByIDs(ctx context.Context, db *gorm.DB, userID uint, taskIDs []uint) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	result := db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, taskIDs).Delete(&model.Task{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting tasks", "error", result.Error, "user_id", userID, "count", len(taskIDs))
		return 0, fmt.Errorf("gormTaskRepository.DeleteByIDs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormTaskRepository) DeleteExpiredByUser(ctx context.Context, db *gorm.DB, userID uint, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Where("user_id = ? AND due_date IS NOT NULL AND due_date < ?", userID, now).
		Delete(&model.Task{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting expired tasks", "error", result.Error, "user_id", userID)
		return 0, fmt.Errorf("gormTaskRepository.DeleteExpiredByUser: %w", result.Error)
	}
	return result.RowsAffected, nil
}
