// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "TaskQuest"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort       = ":8080"
	DefaultLogLevel         = "info"
	DefaultTimezone         = "Asia/Kolkata"
	DefaultAccessTokenTTL   = 7 * 24 * time.Hour
	DefaultCookieName       = "session"
	DefaultCronSchedule     = "0 0 * * *"
	DefaultCronEnabled      = true
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultSchedulerBaseURL = "https://api.groq.com/openai/v1"
	DefaultSchedulerModel   = "llama-3.3-70b-versatile"
	DefaultCacheTTL         = 10 * time.Minute
	DefaultExternalTimeout  = 10 * time.Second
	DefaultScheduleLimit    = 10
)

// DailyJobTimeout は夜間バッチ1回あたりの上限 (cron と HTTP 起動で共通)
const DailyJobTimeout = 10 * time.Minute

// 外部サービスのエンドポイント
const (
	DefaultLeetCodeURL = "https://leetcode.com/graphql"
	DefaultQuoteURL    = "https://dummyjson.com/quotes/random"
)
