package model

import (
	"time"

	"gorm.io/datatypes"
)

type ItemType string

const (
	ItemTypeHeadgear   ItemType = "HEADGEAR"
	ItemTypeAvatar     ItemType = "AVATAR"
	ItemTypeBackground ItemType = "BACKGROUND"
	ItemTypeFrame      ItemType = "FRAME"
)

// ItemTypes は装備スロットの一覧
var ItemTypes = []ItemType{ItemTypeHeadgear, ItemTypeAvatar, ItemTypeBackground, ItemTypeFrame}

func (t ItemType) Valid() bool {
	for _, v := range ItemTypes {
		if t == v {
			return true
		}
	}
	return false
}

// StoreItem はショップのカタログ。シードで投入し、アプリからは変更しない
type StoreItem struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	Name    string   `gorm:"not null" json:"name"`
	Type    ItemType `gorm:"type:varchar(16);not null;index" json:"type"`
	Price   int      `gorm:"not null" json:"price"`
	Image   string   `gorm:"not null" json:"image"`
	Width   int      `gorm:"not null;default:0" json:"width"`
	OffsetX int      `gorm:"not null;default:0" json:"offsetX"`
	OffsetY int      `gorm:"not null;default:0" json:"offsetY"`
	// 表示用の任意属性 (glow, rarity など)
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (StoreItem) TableName() string {
	return "store_items"
}

// UserItem は所持アイテム。(user, item) で一意
type UserItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_items_user_item" json:"userId"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_user_items_user_item" json:"itemId"`
	Item      StoreItem `gorm:"foreignKey:ItemID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserItem) TableName() string {
	return "user_items"
}

// UserEquip は装備中のアイテム。(user, type) で一意
type UserEquip struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_equips_user_type" json:"userId"`
	Type      ItemType  `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_equips_user_type" json:"type"`
	ItemID    uint      `gorm:"not null" json:"itemId"`
	Item      StoreItem `gorm:"foreignKey:ItemID" json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (UserEquip) TableName() string {
	return "user_equips"
}

// StoreItemsResponse は GET /api/store/items のレスポンス
type StoreItemsResponse struct {
	Items    []StoreItem       `json:"items"`
	Owned    []uint            `json:"owned"`
	Equipped map[ItemType]uint `json:"equipped"`
}

type BuyItemRequest struct {
	ItemID uint `json:"itemId" validate:"required"`
}

type EquipItemRequest struct {
	ItemID uint `json:"itemId" validate:"required"`
}

type UnequipItemRequest struct {
	Type ItemType `json:"type"`
}
