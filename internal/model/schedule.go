package model

import "time"

// Schedule は AI が生成した1日の予定 (テキストそのまま)
type Schedule struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	Prompt     *string   `json:"prompt"`
	TasksCount int       `gorm:"not null;default:0" json:"tasksCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// ScheduleTaskInput はクライアントから渡されるタスク
type ScheduleTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Priority    Priority   `json:"priority"`
	XPReward    int        `json:"xpReward"`
}

// GenerateScheduleRequest は POST /api/schedule のボディ
type GenerateScheduleRequest struct {
	Tasks       []ScheduleTaskInput `json:"tasks" validate:"omitempty,dive"`
	CurrentTime string              `json:"currentTime"`
	Prompt      *string             `json:"prompt" validate:"omitempty,max=1000"`
}

type GenerateScheduleResponse struct {
	Schedule   string    `json:"schedule"`
	ScheduleID uint      `json:"scheduleId"`
	SavedAt    time.Time `json:"savedAt"`
}

type ListSchedulesResponse struct {
	Schedules []Schedule `json:"schedules"`
}
