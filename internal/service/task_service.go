//go:generate mockery --name TaskService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/progress"
	"go_task_quest/internal/repository"

	"gorm.io/gorm"
)

type TaskService interface {
	CreateTask(ctx context.Context, userID uint, req *model.CreateTaskRequest) (*model.Task, error)
	ListTasks(ctx context.Context, userID uint) ([]model.Task, error)
	CompleteTask(ctx context.Context, userID, taskID uint) (*model.CompleteTaskResponse, error)
	DeleteTask(ctx context.Context, userID, taskID uint) error
	ValidateTask(ctx context.Context, req *model.ValidateTaskRequest) model.ValidationResult
}

type taskService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	validator TaskValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewTaskService(db *gorm.DB, userRepo repository.UserRepository, taskRepo repository.TaskRepository, validator TaskValidator, cfg *config.Config) TaskService {
	return &taskService{
		db:        db,
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, userID uint, req *model.CreateTaskRequest) (*model.Task, error) {
	logger := middleware.GetLogger(ctx)

	xpReward, ok := progress.XPForDifficulty(req.Difficulty)
	if !ok {
		return nil, model.NewAppError("VALIDATION_ERROR", "Invalid difficulty", "difficulty", model.ErrInvalidInput)
	}

	if s.cfg.AI.ValidateTasks {
		result := s.validator.Validate(ctx, req.Title, req.Description, req.Difficulty)
		if !result.IsRelevant {
			logger.Info("Task rejected by validator", "user_id", userID, "reason", result.Reason)
			return nil, model.NewAppError("TASK_REJECTED", result.Reason, "title", model.ErrInvalidInput)
		}
	}

	now := s.now()
	var dueDate time.Time
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	} else {
		dueDate = progress.NextMidnight(now, s.cfg.Location()).UTC()
	}

	task := &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Priority:    req.Priority,
		DueDate:     &dueDate,
		XPReward:    xpReward,
	}
	if err := s.taskRepo.Create(ctx, s.db, task); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to create task", "", err)
	}

	logger.Info("Task created", "task_id", task.ID, "user_id", userID, "xp_reward", xpReward)
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	logger := middleware.GetLogger(ctx)

	if s.cfg.Tasks.ExpireOnRead {
		deleted, err := s.taskRepo.DeleteExpiredByUser(ctx, s.db, userID, s.now().UTC())
		if err != nil {
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch tasks", "", err)
		}
		if deleted > 0 {
			logger.Info("Expired tasks removed on read", "user_id", userID, "count", deleted)
		}
	}

	tasks, err := s.taskRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch tasks", "", err)
	}
	return tasks, nil
}

// CompleteTask はタスクを完了にし、XP・レベル・ストリークをその場で反映する。
// タスク自体は夜間バッチで削除される
func (s *taskService) CompleteTask(ctx context.Context, userID, taskID uint) (*model.CompleteTaskResponse, error) {
	logger := middleware.GetLogger(ctx).With("task_id", taskID, "user_id", userID)
	var resp *model.CompleteTaskResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.taskRepo.FindByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TASK_NOT_FOUND", "Task not found", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete task", "", err)
		}
		if task.UserID != userID {
			logger.Warn("Attempt to complete another user's task", "owner_id", task.UserID)
			return model.NewAppError("FORBIDDEN", "Forbidden", "", model.ErrForbidden)
		}
		if task.Completed {
			return model.NewAppError("TASK_ALREADY_COMPLETED", "Task already completed", "", model.ErrConflict)
		}

		user, err := s.userRepo.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "User not found", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete task", "", err)
		}

		now := s.now().UTC()
		newStreak := progress.CompletionStreak(user.CurrentStreak, user.LastCompletedAt, now, s.cfg.Location())
		newXP := user.XP + task.XPReward

		user.Level += progress.LevelDelta(user.XP, newXP)
		user.XP = newXP
		user.CurrentStreak = newStreak
		user.LongestStreak = max(user.LongestStreak, newStreak)
		user.LastCompletedAt = &now

		if err := s.userRepo.SaveProgress(ctx, tx, user); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete task", "", err)
		}
		if err := s.taskRepo.MarkCompleted(ctx, tx, task.ID, now, true); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("TASK_ALREADY_COMPLETED", "Task already completed", "", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to complete task", "", err)
		}

		resp = &model.CompleteTaskResponse{
			Success:   true,
			XPGained:  task.XPReward,
			NewStreak: newStreak,
			Level:     user.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Task completed", "xp_gained", resp.XPGained, "streak", resp.NewStreak, "level", resp.Level)
	return resp, nil
}

func (s *taskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	logger := middleware.GetLogger(ctx).With("task_id", taskID, "user_id", userID)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.taskRepo.FindByIDForUpdate(ctx, tx, taskID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TASK_NOT_FOUND", "Task not found", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete task", "", err)
		}
		if task.UserID != userID {
			logger.Warn("Attempt to delete another user's task", "owner_id", task.UserID)
			return model.NewAppError("FORBIDDEN", "Forbidden", "", model.ErrForbidden)
		}
		if err := s.taskRepo.Delete(ctx, tx, taskID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TASK_NOT_FOUND", "Task not found", "", model.ErrNotFound)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to delete task", "", err)
		}
		logger.Info("Task deleted")
		return nil
	})
}

func (s *taskService) ValidateTask(ctx context.Context, req *model.ValidateTaskRequest) model.ValidationResult {
	return s.validator.Validate(ctx, req.Title, req.Description, req.Difficulty)
}
