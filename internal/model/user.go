package model

import (
	"time"
)

// User はプレイヤー本人。XP・レベル・ストリークを持つ
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Username        string     `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	Image           *string    `json:"image"`
	GithubID        *string    `json:"githubId"`
	LeetcodeID      *string    `json:"leetcodeId"`
	XP              int        `gorm:"not null;default:0" json:"xp"`
	Level           int        `gorm:"not null;default:1" json:"level"`
	CurrentStreak   int        `gorm:"not null;default:0" json:"currentStreak"`
	LongestStreak   int        `gorm:"not null;default:0" json:"longestStreak"`
	LastCompletedAt *time.Time `json:"lastCompletedAt"`
	// 夜間バッチで最後に処理した日 (app.timezone の YYYY-MM-DD)
	LastReconciledOn string    `gorm:"size:10;not null;default:''" json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Tasks     []Task      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Inventory []UserItem  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Equipped  []UserEquip `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// RegisterRequest は新規登録APIのリクエストボディ
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,min=3,max=32"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Image    *string `json:"image" validate:"omitempty,url"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// UpdateUserRequest はプロフィール更新。nil の項目は変更しない
type UpdateUserRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=100"`
	Username   *string `json:"username" validate:"omitempty,min=3,max=32"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Image      *string `json:"image"`
	GithubID   *string `json:"githubId"`
	LeetcodeID *string `json:"leetcodeId"`
}

// LeaderboardTask はリーダーボードに載せるタスクの要約
type LeaderboardTask struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	XPReward   int        `json:"xpReward"`
	Completed  bool       `json:"completed"`
}

// LeaderboardEntry は GET /api/users の1行
type LeaderboardEntry struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	Image         *string           `json:"image"`
	XP            int               `json:"xp"`
	Level         int               `json:"level"`
	CurrentStreak int               `json:"currentStreak"`
	LongestStreak int               `json:"longestStreak"`
	Tasks         []LeaderboardTask `json:"tasks"`
}

// PublicProfile は GET /api/users/{email} のレスポンス (パスワードは含めない)
type PublicProfile struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	Image           *string    `json:"image"`
	CurrentStreak   int        `json:"currentStreak"`
	LongestStreak   int        `json:"longestStreak"`
	XP              int        `json:"xp"`
	Level           int        `json:"level"`
	LastCompletedAt *time.Time `json:"lastCompletedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func NewPublicProfile(u *User) *PublicProfile {
	return &PublicProfile{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Username:        u.Username,
		Image:           u.Image,
		CurrentStreak:   u.CurrentStreak,
		LongestStreak:   u.LongestStreak,
		XP:              u.XP,
		Level:           u.Level,
		LastCompletedAt: u.LastCompletedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// UploadImageRequest は data URL 形式の画像
type UploadImageRequest struct {
	Image string `json:"image" validate:"required"`
}

type UploadImageResponse struct {
	URL string `json:"url"`
}
