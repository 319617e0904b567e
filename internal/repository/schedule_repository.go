//go:generate mockery --name ScheduleRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"
	"time"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"

	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, db *gorm.DB, schedule *model.Schedule) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID uint) (int64, error)
	// List は新しい順。date (その日の 0 時) を渡すとその日の分だけ
	List(ctx context.Context, db *gorm.DB, userID uint, date *time.Time, limit int) ([]model.Schedule, error)
}

type gormScheduleRepository struct{}

func NewGormScheduleRepository() ScheduleRepository {
	return &gormScheduleRepository{}
}

func (r *gormScheduleRepository) Create(ctx context.Context, db *gorm.DB, schedule *model.Schedule) error {
	if err := db.WithContext(ctx).Create(schedule).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating schedule", "error", err, "user_id", schedule.UserID)
		return fmt.Errorf("gormScheduleRepository.Create: %w", err)
	}
	return nil
}

func (r *gormScheduleRepository) DeleteByUser(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	result := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Schedule{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting schedules", "error", result.Error, "user_id", userID)
		return 0, fmt.Errorf("gormScheduleRepository.DeleteByUser: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormScheduleRepository) List(ctx context.Context, db *gorm.DB, userID uint, date *time.Time, limit int) ([]model.Schedule, error) {
	schedules := []model.Schedule{}
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if date != nil {
		q = q.Where("date >= ? AND date < ?", *date, date.AddDate(0, 0, 1))
	}
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&schedules).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing schedules", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormScheduleRepository.List: %w", err)
	}
	return schedules, nil
}
