// internal/config/config.go
package config

import (
	"log"
	"strings"
	"time"
	// コンテナに tzdata がなくても app.timezone を解決できるようにする
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppConfig       `mapstructure:"app"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cron      CronConfig      `mapstructure:"cron"`
	Tasks     TasksConfig     `mapstructure:"tasks"`
	AI        AIConfig        `mapstructure:"ai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	SES       SESConfig       `mapstructure:"ses"`
	CORS      CORSConfig      `mapstructure:"cors"`
	External  ExternalConfig  `mapstructure:"external"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Timezone    string `mapstructure:"timezone"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	CookieName     string        `mapstructure:"cookie_name"`
}

type CronConfig struct {
	Secret   string `mapstructure:"secret"`
	Schedule string `mapstructure:"schedule"`
	Enabled  bool   `mapstructure:"enabled"`
}

type TasksConfig struct {
	// true の場合、一覧取得時に期限切れタスクを削除する
	ExpireOnRead bool `mapstructure:"expire_on_read"`
}

type AIConfig struct {
	ValidateTasks bool `mapstructure:"validate_tasks"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SchedulerConfig は OpenAI 互換のチャット API の接続先
type SchedulerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	EmulatorHost  string `mapstructure:"emulator_host"`
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // log | smtp | ses
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"` // static_credentials | iam_role
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type ExternalConfig struct {
	LeetCodeURL string        `mapstructure:"leetcode_url"`
	QuoteURL    string        `mapstructure:"quote_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// APP_DATABASE_URL のように接頭辞つきの環境変数で上書きできる
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// シークレットは接頭辞なしの名前でも受け付ける
	_ = viper.BindEnv("jwt.secret_key", "APP_JWT_SECRET_KEY", "JWT_SECRET")
	_ = viper.BindEnv("cron.secret", "APP_CRON_SECRET", "CRON_SECRET")
	_ = viper.BindEnv("gemini.api_key", "APP_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = viper.BindEnv("scheduler.api_key", "APP_SCHEDULER_API_KEY", "SCHEDULER_API_KEY")
	_ = viper.BindEnv("database.url", "APP_DATABASE_URL", "DATABASE_URL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	applyDefaults(&Cfg)

	// cron.enabled は未設定なら有効
	if !viper.IsSet("cron.enabled") {
		log.Println("Cron enabled flag not set, defaulting to true")
		Cfg.Cron.Enabled = DefaultCronEnabled
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Timezone: %s", Cfg.App.Timezone)
	log.Printf("Cron: enabled=%t schedule=%q", Cfg.Cron.Enabled, Cfg.Cron.Schedule)
	log.Printf("Mailer Type: %s", Cfg.Mailer.Type)

	return nil
}

// applyDefaults は未設定の項目にデフォルト値を入れる
func applyDefaults(c *Config) {
	if c.Server.Port == "" {
		log.Printf("Server port not set, using default '%s'", DefaultServerPort)
		c.Server.Port = DefaultServerPort
	}
	if c.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.App.Name == "" {
		c.App.Name = AppName
	}
	if c.App.Timezone == "" {
		log.Printf("App timezone not set, using default '%s'", DefaultTimezone)
		c.App.Timezone = DefaultTimezone
	}
	if c.JWT.SecretKey == "" {
		log.Println("Warning: JWT secret key is not set in config.")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		c.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if c.JWT.CookieName == "" {
		c.JWT.CookieName = DefaultCookieName
	}
	if c.Cron.Schedule == "" {
		c.Cron.Schedule = DefaultCronSchedule
	}
	if c.Cron.Secret == "" {
		log.Println("Warning: Cron secret is not set; the cleanup endpoint will reject every request.")
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Scheduler.BaseURL == "" {
		c.Scheduler.BaseURL = DefaultSchedulerBaseURL
	}
	if c.Scheduler.Model == "" {
		c.Scheduler.Model = DefaultSchedulerModel
	}
	if c.Redis.CacheTTL <= 0 {
		c.Redis.CacheTTL = DefaultCacheTTL
	}
	if c.Mailer.Type == "" {
		c.Mailer.Type = "log"
	}
	if c.External.LeetCodeURL == "" {
		c.External.LeetCodeURL = DefaultLeetCodeURL
	}
	if c.External.QuoteURL == "" {
		c.External.QuoteURL = DefaultQuoteURL
	}
	if c.External.Timeout <= 0 {
		c.External.Timeout = DefaultExternalTimeout
	}
}

// Location は app.timezone を解決する。解決できなければ UTC。
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		log.Printf("Invalid timezone %q, falling back to UTC: %v", c.App.Timezone, err)
		return time.UTC
	}
	return loc
}
