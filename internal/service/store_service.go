//go:generate mockery --name StoreService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
	"go_task_quest/internal/repository"

	"gorm.io/gorm"
)

type StoreService interface {
	// ListItems は userID が nil ならカタログだけを返す
	ListItems(ctx context.Context, userID *uint) (*model.StoreItemsResponse, error)
	BuyItem(ctx context.Context, userID, itemID uint) error
	EquipItem(ctx context.Context, userID, itemID uint) error
	UnequipItem(ctx context.Context, userID uint, itemType model.ItemType) error
}

type storeService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
}

func NewStoreService(db *gorm.DB, userRepo repository.UserRepository, storeRepo repository.StoreRepository) StoreService {
	return &storeService{db: db, userRepo: userRepo, storeRepo: storeRepo}
}

func (s *storeService) ListItems(ctx context.Context, userID *uint) (*model.StoreItemsResponse, error) {
	items, err := s.storeRepo.ListItems(ctx, s.db)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch store items", "", err)
	}

	resp := &model.StoreItemsResponse{
		Items:    items,
		Owned:    []uint{},
		Equipped: map[model.ItemType]uint{},
	}
	if userID == nil {
		return resp, nil
	}

	owned, err := s.storeRepo.ListOwnedItemIDs(ctx, s.db, *userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch store items", "", err)
	}
	resp.Owned = append(resp.Owned, owned...)

	equipped, err := s.storeRepo.ListEquipped(ctx, s.db, *userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to fetch store items", "", err)
	}
	for _, e := range equipped {
		resp.Equipped[e.Type] = e.ItemID
	}
	return resp, nil
}

// BuyItem は XP の引き落としと所持の付与を1トランザクションで行う
func (s *storeService) BuyItem(ctx context.Context, userID, itemID uint) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "item_id", itemID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByIDForUpdate(ctx, tx, userID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Purchase failed", "", err)
		}
		item, itemErr := s.storeRepo.FindItemByID(ctx, tx, itemID)
		if itemErr != nil && !errors.Is(itemErr, model.ErrNotFound) {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Purchase failed", "", itemErr)
		}
		if user == nil || item == nil {
			return model.NewAppError("INVALID_ITEM", "Invalid item/user", "itemId", model.ErrInvalidInput)
		}

		owned, err := s.storeRepo.IsOwned(ctx, tx, userID, itemID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Purchase failed", "", err)
		}
		if owned {
			return model.NewAppError("ALREADY_PURCHASED", "Already purchased", "itemId", model.ErrConflict)
		}

		debited, err := s.userRepo.DebitXP(ctx, tx, userID, item.Price)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Purchase failed", "", err)
		}
		if !debited {
			return model.NewAppError("NOT_ENOUGH_XP", "Not enough XP", "", model.ErrInvalidInput)
		}

		if err := s.storeRepo.GrantItem(ctx, tx, userID, itemID); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("ALREADY_PURCHASED", "Already purchased", "itemId", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Purchase failed", "", err)
		}
		logger.Info("Item purchased", "price", item.Price, "xp_before", user.XP)
		return nil
	})
	if err != nil {
		logger.Warn("Purchase rejected", "error", err)
	}
	return err
}

func (s *storeService) EquipItem(ctx context.Context, userID, itemID uint) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "item_id", itemID)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.storeRepo.FindItemByID(ctx, tx, itemID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("INVALID_ITEM", "Invalid item or user", "itemId", model.ErrInvalidInput)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to equip item", "", err)
		}

		owned, err := s.storeRepo.IsOwned(ctx, tx, userID, itemID)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to equip item", "", err)
		}
		if !owned {
			return model.NewAppError("NOT_OWNED", "You do not own this item", "itemId", model.ErrInvalidInput)
		}

		if err := s.storeRepo.UpsertEquip(ctx, tx, &model.UserEquip{UserID: userID, Type: item.Type, ItemID: item.ID}); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to equip item", "", err)
		}
		logger.Info("Item equipped", "type", item.Type)
		return nil
	})
}

func (s *storeService) UnequipItem(ctx context.Context, userID uint, itemType model.ItemType) error {
	if !itemType.Valid() {
		return model.NewAppError("INVALID_TYPE", "Invalid type", "type", model.ErrInvalidInput)
	}

	removed, err := s.storeRepo.DeleteEquip(ctx, s.db, userID, itemType)
	if err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to unequip item", "", err)
	}
	middleware.GetLogger(ctx).Info("Item unequipped", "user_id", userID, "type", itemType, "removed", removed)
	return nil
}
