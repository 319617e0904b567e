package model

import (
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Task はユーザーの1日のタスク
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `gorm:"type:varchar(16);not null" json:"difficulty"`
	Priority    Priority   `gorm:"type:varchar(16);not null" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"dueDate"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	// 作成時の難易度テーブルから固定。以後変更しない
	XPReward int `gorm:"not null;default:0" json:"xpReward"`
	// 完了リクエスト時に XP とストリークを反映済みか
	XPCredited bool      `gorm:"not null;default:false" json:"xpCredited"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Task) TableName() string {
	return "tasks"
}

// CreateTaskRequest は POST /api/tasks のボディ
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Difficulty  Difficulty `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
	Priority    Priority   `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate"`
}

// CompleteTaskResponse は PATCH /api/tasks/{id} のレスポンス
type CompleteTaskResponse struct {
	Success   bool `json:"success"`
	XPGained  int  `json:"xpGained"`
	NewStreak int  `json:"newStreak"`
	Level     int  `json:"level"`
}

// ValidateTaskRequest は AI 判定に渡すタスク
type ValidateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
}

// 判定理由 (AI が返してよい値)
const (
	ReasonTaskValid          = "Task valid"
	ReasonInvalidTask        = "Invalid task"
	ReasonInappropriateTask  = "Inappropriate task"
	ReasonDifficultyMismatch = "Difficulty mismatch"

	// 失敗時 (fail closed)
	ReasonInvalidAIResponse  = "Invalid AI response"
	ReasonAIValidationFailed = "AI validation failed"
)

type ValidationResult struct {
	IsRelevant bool   `json:"isRelevant"`
	Reason     string `json:"reason"`
}

// SuccessResponse は本文のない成功レスポンス
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
