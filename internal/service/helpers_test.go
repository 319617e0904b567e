package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/model"
	"go_task_quest/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB はテストごとに独立したインメモリ SQLite を用意する
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 共有キャッシュでのテーブルロック競合を避ける
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "TaskQuest", Timezone: "Asia/Kolkata", FrontendURL: "http://localhost:3000"},
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: time.Hour,
			CookieName:     "session",
		},
	}
}

func createUser(t *testing.T, db *gorm.DB, mutate func(u *model.User)) *model.User {
	t.Helper()
	name := uuid.NewString()[:8]
	u := &model.User{
		Name:         "user " + name,
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "x",
		Level:        1,
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, repository.NewGormUserRepository().Create(context.Background(), db, u))
	return u
}

func createTask(t *testing.T, db *gorm.DB, userID uint, mutate func(task *model.Task)) *model.Task {
	t.Helper()
	task := &model.Task{
		UserID:     userID,
		Title:      "Study one topic",
		Difficulty: model.DifficultyMedium,
		Priority:   model.PriorityMedium,
		XPReward:   25,
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, repository.NewGormTaskRepository().Create(context.Background(), db, task))
	return task
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *model.User {
	t.Helper()
	u, err := repository.NewGormUserRepository().FindByID(context.Background(), db, id)
	require.NoError(t, err)
	return u
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrString(s string) *string { return &s }

func requireAppError(t *testing.T, err error, code string, sentinel error) *model.AppError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, sentinel)
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Detail.Code)
	return appErr
}
