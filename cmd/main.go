package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"go_task_quest/internal/config"
	"go_task_quest/internal/handlers"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/repository"
	"go_task_quest/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	configDir := os.Getenv("APP_CONFIG_DIR")
	if configDir == "" {
		configDir = "./configs"
	}
	if err := config.LoadConfig(configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := newLogger(cfg.Log.Level, tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", cfg.App.Name), slog.String("version", config.AppVersion))

	// Database
	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()
	if err := repository.AutoMigrate(db); err != nil {
		slog.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	// Infrastructure
	kv, err := service.NewKVStore(cfg, logger)
	if err != nil {
		slog.Error("Error connecting to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer kv.Close()

	images, err := service.NewImageStore(ctx, cfg, logger)
	if err != nil {
		slog.Error("Error initializing object storage", slog.Any("error", err))
		os.Exit(1)
	}

	generator, err := service.NewGeminiGenerator(ctx, &cfg.Gemini)
	if err != nil {
		// キーがなければ検証は常に却下になる
		slog.Warn("Gemini is not available, task validation will reject every task", slog.Any("error", err))
		generator = service.NewUnavailableGenerator()
	}
	if cfg.Scheduler.APIKey == "" {
		slog.Warn("Scheduler API key not set, schedule generation will fail")
	}

	// Dependency Injection
	userRepo := repository.NewGormUserRepository()
	taskRepo := repository.NewGormTaskRepository()
	storeRepo := repository.NewGormStoreRepository()
	scheduleRepo := repository.NewGormScheduleRepository()

	sessions := service.NewSessionStore(kv)
	mailer := service.NewMailer(cfg)

	authService := service.NewAuthService(db, userRepo, sessions, mailer, cfg)
	userService := service.NewUserService(db, userRepo, images)
	taskService := service.NewTaskService(db, userRepo, taskRepo, service.NewTaskValidator(generator), cfg)
	storeService := service.NewStoreService(db, userRepo, storeRepo)
	scheduleService := service.NewScheduleService(db, taskRepo, scheduleRepo, service.NewChatPlanner(&cfg.Scheduler), cfg)
	reconcileService := service.NewReconcileService(db, userRepo, taskRepo, cfg)
	statsService := service.NewStatsService(cfg, kv)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	storeHandler := handlers.NewStoreHandler(storeService, logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, logger)
	cronHandler := handlers.NewCronHandler(reconcileService, logger)
	externalHandler := handlers.NewExternalHandler(statsService, logger)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)

	requireSession := middleware.SessionAuth(cfg, sessions)
	optionalSession := middleware.OptionalSessionAuth(cfg, sessions)

	r.Route("/api", func(r chi.Router) {
		// Timeout の外。上限は config.DailyJobTimeout
		r.With(middleware.CronSecretAuth(cfg.Cron.Secret)).Get("/cron/daily-cleanup", cronHandler.DailyCleanup)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))

			// --- Public routes ---
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/users", userHandler.Leaderboard)
			r.Get("/users/{email}", userHandler.GetProfile)
			r.Post("/tasks/validate", taskHandler.ValidateTask)
			r.Get("/leetcode", externalHandler.LeetCode)
			r.Get("/quote", externalHandler.Quote)
			r.With(optionalSession).Get("/store/items", storeHandler.ListItems)

			// --- Protected routes ---
			r.Group(func(r chi.Router) {
				r.Use(requireSession)

				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.GetMe)
				r.Patch("/users/update", userHandler.UpdateProfile)
				r.Post("/upload", userHandler.UploadImage)

				r.Route("/tasks", func(r chi.Router) {
					r.Post("/", taskHandler.CreateTask)
					r.Get("/user", taskHandler.ListTasks)
					r.Patch("/{id}", taskHandler.CompleteTask)
					r.Delete("/delete-only/{id}", taskHandler.DeleteTask)
				})

				r.Route("/store", func(r chi.Router) {
					r.Post("/buy", storeHandler.BuyItem)
					r.Post("/equip", storeHandler.EquipItem)
					r.Post("/unequip", storeHandler.UnequipItem)
				})

				r.Post("/schedule", scheduleHandler.Generate)
				r.Get("/schedule", scheduleHandler.List)
			})
		})
	})

	r.With(chimiddleware.Timeout(5*time.Second)).Get("/health", healthHandler(db))

	// In-process cron
	var scheduler *cron.Cron
	if cfg.Cron.Enabled {
		scheduler, err = startDailyJob(cfg, reconcileService, logger)
		if err != nil {
			slog.Error("Error scheduling daily job", slog.Any("error", err), slog.String("schedule", cfg.Cron.Schedule))
			os.Exit(1)
		}
	}

	// Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	if scheduler != nil {
		// 実行中のバッチが終わるまで待つ
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は log.level と APP_ENV からハンドラを選ぶ。dev なら tint、それ以外は JSON
func newLogger(level string, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}

// startDailyJob は cron.schedule (app.timezone 基準) で夜間バッチを登録する
func startDailyJob(cfg *config.Config, reconcile service.ReconcileService, logger *slog.Logger) (*cron.Cron, error) {
	jobLogger := logger.With(slog.String("job", "daily-cleanup"))
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger), cron.Recover(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(cfg.Cron.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.DailyJobTimeout)
		defer cancel()
		ctx = middleware.WithLogger(ctx, jobLogger)

		if _, err := reconcile.RunDaily(ctx, time.Now()); err != nil {
			jobLogger.Error("Daily cleanup failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	jobLogger.Info("Daily job scheduled", slog.String("schedule", cfg.Cron.Schedule), slog.String("timezone", cfg.App.Timezone))
	return c, nil
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
