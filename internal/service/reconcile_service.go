//go:generate mockery --name ReconcileService --output ./mocks --outpkg mocks --case=underscore
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

// ReconcileService は1日1回のストリーク・XP 精算とタスク掃除
type ReconcileService interface {
	RunDaily(ctx context.Context, now time.Time) (*model.CleanupSummary, error)
}

type reconcileService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	cfg      *config.Config
}

func NewReconcileService(db *gorm.DB, userRepo repository.UserRepository, taskRepo repository.TaskRepository, cfg *config.Config) ReconcileService {
	return &reconcileService{db: db, userRepo: userRepo, taskRepo: taskRepo, cfg: cfg}
}

var errAlreadyReconciled = errors.New("already reconciled")

// RunDaily は全ユーザーを順番に処理する。1人の失敗で他のユーザーは巻き戻さない。
// 期限切れは now の日の 0 時 (app.timezone) を基準に判定する。
// 途中で ctx が切れた場合は、そこまでの集計とエラーを両方返す
func (s *reconcileService) RunDaily(ctx context.Context, now time.Time) (*model.CleanupSummary, error) {
	loc := s.cfg.Location()
	day := progress.DayKey(now, loc)
	cutoff := progress.StartOfDay(now, loc).UTC()
	logger := middleware.GetLogger(ctx).With("job", "daily_cleanup", "day", day)

	ids, err := s.userRepo.ListIDs(ctx, s.db)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Cron job failed", "", err)
	}

	summary := &model.CleanupSummary{Day: day, Users: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			logger.Warn("Daily cleanup interrupted", "error", err, "processed", summary.Processed, "users", summary.Users)
			summary.Interrupted = true
			return summary, model.NewAppError("INTERNAL_SERVER_ERROR", "Cron job interrupted", "", err)
		}

		out, deleted, err := s.reconcileUser(ctx, id, day, cutoff)
		switch {
		case errors.Is(err, errAlreadyReconciled):
			summary.Skipped++
			continue
		case err != nil:
			logger.Error("Failed to reconcile user", "error", err, "user_id", id)
			summary.Failed++
			continue
		}

		summary.Processed++
		summary.XPAwarded += out.EarnedXP
		summary.TasksDeleted += int(deleted)
		switch out.StreakChange {
		case progress.StreakIncremented:
			summary.StreaksIncremented++
		case progress.StreakReset:
			summary.StreaksReset++
		}
	}

	summary.Success = true
	logger.Info("Daily cleanup finished",
		"users", summary.Users,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"xp_awarded", summary.XPAwarded,
		"tasks_deleted", summary.TasksDeleted,
	)
	return summary, nil
}

func (s *reconcileService) reconcileUser(ctx context.Context, userID uint, day string, cutoff time.Time) (progress.Outcome, int64, error) {
	var (
		out     progress.Outcome
		deleted int64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.LastReconciledOn == day {
			return errAlreadyReconciled
		}

		tasks, err := s.taskRepo.ListByUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		out = progress.Reconcile(progress.UserState{
			XP:            user.XP,
			Level:         user.Level,
			CurrentStreak: user.CurrentStreak,
			LongestStreak: user.LongestStreak,
		}, tasks, cutoff)

		user.XP = out.State.XP
		user.Level = out.State.Level
		user.CurrentStreak = out.State.CurrentStreak
		user.LongestStreak = out.State.LongestStreak
		user.LastReconciledOn = day
		if err := s.userRepo.SaveProgress(ctx, tx, user); err != nil {
			return err
		}

		deleted, err = s.taskRepo.DeleteByIDs(ctx, tx, userID, out.DeleteIDs)
		return err
	})
	return out, deleted, err
}
