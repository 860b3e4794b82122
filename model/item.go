package model

import (
	"time"

	"gorm.io/datatypes"
)

// Item represents a single item stack owned by an account.
// A stack whose count reaches zero is deleted, never kept around.
type Item struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  int64          `gorm:"index:idx_item_account;not null" json:"account_id"`
	TemplateID string         `gorm:"size:64;not null" json:"template_id"`
	Type       string         `gorm:"size:32" json:"type"` // weapon, armor, consumable, material, reward, ...
	Count      int            `gorm:"default:1" json:"count"`
	Level      int            `gorm:"default:1" json:"level"`
	Extra      datatypes.JSON `json:"extra,omitempty"` // affixes, enchants, other opaque data
	AcquiredAt time.Time      `gorm:"autoCreateTime" json:"acquired_at"`
	Equipped   bool           `gorm:"default:false" json:"equipped"`
	SlotIndex  int            `gorm:"default:-1" json:"slot_index"` // -1 = not placed
}
