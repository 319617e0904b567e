//go:generate mockery --name StoreRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository interface {
	ListItems(ctx context.Context, db *gorm.DB) ([]model.StoreItem, error)
	FindItemByID(ctx context.Context, db *gorm.DB, itemID uint) (*model.StoreItem, error)
	CreateItem(ctx context.Context, db *gorm.DB, item *model.StoreItem) error
	FindItemByName(ctx context.Context, db *gorm.DB, name string) (*model.StoreItem, error)
	IsOwned(ctx context.Context, db *gorm.DB, userID, itemID uint) (bool, error)
	GrantItem(ctx context.Context, db *gorm.DB, userID, itemID uint) error
	ListOwnedItemIDs(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error)
	ListEquipped(ctx context.Context, db *gorm.DB, userID uint) ([]model.UserEquip, error)
	// UpsertEquip は (user, type) の装備を置き換える
	UpsertEquip(ctx context.Context, db *gorm.DB, equip *model.UserEquip) error
	DeleteEquip(ctx context.Context, db *gorm.DB, userID uint, itemType model.ItemType) (int64, error)
}

type gormStoreRepository struct{}

func NewGormStoreRepository() StoreRepository {
	return &gormStoreRepository{}
}

func (r *gormStoreRepository) ListItems(ctx context.Context, db *gorm.DB) ([]model.StoreItem, error) {
	var items []model.StoreItem
	if err := db.WithContext(ctx).Order("price ASC").Order("id").Find(&items).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing store items", "error", err)
		return nil, fmt.Errorf("gormStoreRepository.ListItems: %w", err)
	}
	return items, nil
}

func (r *gormStoreRepository) FindItemByID(ctx context.Context, db *gorm.DB, itemID uint) (*model.StoreItem, error) {
	var item model.StoreItem
	if err := db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding store item", "error", err, "item_id", itemID)
		return nil, fmt.Errorf("gormStoreRepository.FindItemByID: %w", err)
	}
	return &item, nil
}

func (r *gormStoreRepository) FindItemByName(ctx context.Context, db *gorm.DB, name string) (*model.StoreItem, error) {
	var item model.StoreItem
	if err := db.WithContext(ctx).Where("name = ?", name).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormStoreRepository.FindItemByName: %w", err)
	}
	return &item, nil
}

func (r *gormStoreRepository) CreateItem(ctx context.Context, db *gorm.DB, item *model.StoreItem) error {
	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating store item", "error", err, "name", item.Name)
		return fmt.Errorf("gormStoreRepository.CreateItem: %w", err)
	}
	return nil
}

func (r *gormStoreRepository) IsOwned(ctx context.Context, db *gorm.DB, userID, itemID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.UserItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error checking ownership", "error", err, "user_id", userID, "item_id", itemID)
		return false, fmt.Errorf("gormStoreRepository.IsOwned: %w", err)
	}
	return count > 0, nil
}

func (r *gormStoreRepository) GrantItem(ctx context.Context, db *gorm.DB, userID, itemID uint) error {
	logger := middleware.GetLogger(ctx)
	err := db.WithContext(ctx).Create(&model.UserItem{UserID: userID, ItemID: itemID}).Error
	if err != nil {
		if isDuplicateKey(err) {
			logger.Warn("Duplicate user item", "user_id", userID, "item_id", itemID)
			return model.ErrConflict
		}
		logger.Error("Error granting item", "error", err, "user_id", userID, "item_id", itemID)
		return fmt.Errorf("gormStoreRepository.GrantItem: %w", err)
	}
	return nil
}

func (r *gormStoreRepository) ListOwnedItemIDs(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	ids := []uint{}
	err := db.WithContext(ctx).Model(&model.UserItem{}).
		Where("user_id = ?", userID).Order("id").
		Pluck("item_id", &ids).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing owned items", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormStoreRepository.ListOwnedItemIDs: %w", err)
	}
	return ids, nil
}

func (r *gormStoreRepository) ListEquipped(ctx context.Context, db *gorm.DB, userID uint) ([]model.UserEquip, error) {
	var equips []model.UserEquip
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&equips).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing equipped items", "error", err, "user_id", userID)
		return nil, fmt.Errorf("gormStoreRepository.ListEquipped: %w", err)
	}
	return equips, nil
}

func (r *gormStoreRepository) UpsertEquip(ctx context.Context, db *gorm.DB, equip *model.UserEquip) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_id", "updated_at"}),
	}).Create(equip).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error upserting equip", "error", err, "user_id", equip.UserID, "type", equip.Type)
		return fmt.Errorf("gormStoreRepository.UpsertEquip: %w", err)
	}
	return nil
}

func (r *gormStoreRepository) DeleteEquip(ctx context.Context, db *gorm.DB, userID uint, itemType model.ItemType) (int64, error) {
	result := db.WithContext(ctx).Where("user_id = ? AND type = ?", userID, itemType).Delete(&model.UserEquip{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting equip", "error", result.Error, "user_id", userID, "type", itemType)
		return 0, fmt.Errorf("gormStoreRepository.DeleteEquip: %w", result.Error)
	}
	return result.RowsAffected, nil
}
