package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"go_task_quest/internal/config"
	"go_task_quest/internal/model"
	"go_task_quest/internal/repository"

	"gorm.io/datatypes"
)

// ショップの初期カタログ。名前で重複を判定するので何度実行してもよい
var catalog = []model.StoreItem{
	{
		Name:     "Cowboy Hat",
		Type:     model.ItemTypeHeadgear,
		Price:    100,
		Image:    "https://res.cloudinary.com/dujwwjdkq/image/upload/v1763736281/ChatGPT_Image_Nov_21_2025_08_14_29_PM_kgshgt.png",
		Width:    80,
		OffsetX:  0,
		OffsetY:  -35,
		Metadata: datatypes.JSON(`{"glow":true,"rarity":"begginer"}`),
	},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	configDir := os.Getenv("APP_CONFIG_DIR")
	if configDir == "" {
		configDir = "./configs"
	}
	if err := config.LoadConfig(configDir); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx := context.Background()
	repo := repository.NewGormStoreRepository()

	for i := range catalog {
		item := catalog[i]
		existing, err := repo.FindItemByName(ctx, db, item.Name)
		switch {
		case err == nil:
			logger.Info("Store item already exists, skipping", "name", item.Name, "id", existing.ID)
			continue
		case !errors.Is(err, model.ErrNotFound):
			log.Fatalf("Failed to look up %q: %v", item.Name, err)
		}

		if err := repo.CreateItem(ctx, db, &item); err != nil {
			log.Fatalf("Failed to create %q: %v", item.Name, err)
		}
		logger.Info("Store item added", "name", item.Name, "id", item.ID, "price", item.Price)
	}

	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Seeding finished")
}
