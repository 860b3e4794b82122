package model

import (
	"time"

	"gorm.io/datatypes"
)

// Reward type tags.
const (
	RewardTypeDailyLogin  = "daily_login"
	RewardTypeAchievement = "achievement"
	RewardTypeEvent       = "event"
	RewardTypeAdmin       = "admin"
)

// RewardGrant is a reward awaiting claim by its recipient.
// Claimed is a one-way transition; grants are kept as history, never deleted.
type RewardGrant struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID   int64          `gorm:"index:idx_reward_account;not null" json:"account_id"`
	Type        string         `gorm:"size:32;not null" json:"type"`
	Content     datatypes.JSON `json:"content"` // serialized RewardContent
	Description string         `gorm:"size:128" json:"description"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	ClaimedAt   *time.Time     `json:"claimed_at"`
	Claimed     bool           `gorm:"default:false" json:"claimed"`
}

// Expired reports whether the grant is past its expiry at the given time.
func (g *RewardGrant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}
