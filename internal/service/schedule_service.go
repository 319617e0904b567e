//go:generate mockery --name ScheduleService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/progress"
	"go_task_quest/internal/repository"

	"gorm.io/gorm"
)

type ScheduleService interface {
	Generate(ctx context.Context, userID uint, req *model.GenerateScheduleRequest) (*model.GenerateScheduleResponse, error)
	// List の date は "YYYY-MM-DD" (空なら全件)、limit が 0 以下なら既定値
	List(ctx context.Context, userID uint, date string, limit int) ([]model.Schedule, error)
}

type scheduleService struct {
	db           *gorm.DB
	taskRepo     repository.TaskRepository
	scheduleRepo repository.ScheduleRepository
	planner      SchedulePlanner
	cfg          *config.Config
	now          func() time.Time
}

func NewScheduleService(db *gorm.DB, taskRepo repository.TaskRepository, scheduleRepo repository.ScheduleRepository, planner SchedulePlanner, cfg *config.Config) ScheduleService {
	return &scheduleService{
		db:           db,
		taskRepo:     taskRepo,
		scheduleRepo: scheduleRepo,
		planner:      planner,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *scheduleService) Generate(ctx context.Context, userID uint, req *model.GenerateScheduleRequest) (*model.GenerateScheduleResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)
	loc := s.cfg.Location()
	now := s.now()

	tasks := req.Tasks
	if len(tasks) == 0 {
		open, err := s.taskRepo.ListOpenByUser(ctx, s.db, userID)
		if err != nil {
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate schedule", "", err)
		}
		for _, t := range open {
			tasks = append(tasks, model.ScheduleTaskInput{
				Title:       t.Title,
				Description: t.Description,
				Difficulty:  t.Difficulty,
				Priority:    t.Priority,
				XPReward:    t.XPReward,
			})
		}
	}

	currentTime := req.CurrentTime
	if currentTime == "" {
		currentTime = now.In(loc).Format("3:04 PM")
	}

	message := buildPlannerMessage(tasks, currentTime, req.Prompt)
	logger.Debug("Generating schedule", "tasks", len(tasks))

	content, err := s.planner.Plan(ctx, message)
	if err != nil {
		logger.Error("Schedule generation error", "error", err)
		return nil, model.NewAppError("SCHEDULE_FAILED", "Failed to generate schedule", "", model.ErrUpstream)
	}

	var prompt *string
	if req.Prompt != nil && strings.TrimSpace(*req.Prompt) != "" {
		prompt = req.Prompt
	}
	schedule := &model.Schedule{
		UserID:     userID,
		Content:    content,
		Date:       progress.StartOfDay(now, loc).UTC(),
		Prompt:     prompt,
		TasksCount: len(tasks),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.scheduleRepo.DeleteByUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.scheduleRepo.Create(ctx, tx, schedule)
	})
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to generate schedule", "", err)
	}

	logger.Info("Schedule saved", "schedule_id", schedule.ID, "tasks", len(tasks))
	return &model.GenerateScheduleResponse{
		Schedule:   content,
		ScheduleID: schedule.ID,
		SavedAt:    schedule.CreatedAt,
	}, nil
}

func (s *scheduleService) List(ctx context.Context, userID uint, date string, limit int) ([]model.Schedule, error) {
	if limit <= 0 {
		limit = config.DefaultScheduleLimit
	}

	var day *time.Time
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, s.cfg.Location())
		if err != nil {
			return nil, model.NewAppError("VALIDATION_ERROR", "date must be YYYY-MM-DD", "date", model.ErrInvalidInput)
		}
		utc := parsed.UTC()
		day = &utc
	}

	schedules, err := s.scheduleRepo.List(ctx, s.db, userID, day, limit)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch schedules", "", err)
	}
	return schedules, nil
}

func buildPlannerMessage(tasks []model.ScheduleTaskInput, currentTime string, prompt *string) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("title: %s | Description: %s | Difficulty: %s | Priority: %s | XP: %d",
			t.Title, t.Description, t.Difficulty, t.Priority, t.XPReward))
	}

	extra := "none"
	if prompt != nil && strings.TrimSpace(*prompt) != "" {
		extra = strings.TrimSpace(*prompt)
	}

	return fmt.Sprintf("Tasks for today:\n%s\nCurrent time: %s\nExtra instructions: %s",
		strings.Join(lines, "\n"), currentTime, extra)
}
