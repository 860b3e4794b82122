package model

import "time"

// Account represents a registered player account.
type Account struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash string     `gorm:"size:64;not null" json:"-"`
	Salt         string     `gorm:"size:64;not null" json:"-"`
	DisplayName  string     `gorm:"size:32" json:"display_name"`
	Email        string     `gorm:"size:128" json:"email,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	Banned       bool       `gorm:"default:false" json:"banned"`
	BanReason    string     `gorm:"size:128" json:"ban_reason,omitempty"`
	Level        int        `gorm:"default:1" json:"level"`
	Experience   int64      `gorm:"default:0" json:"experience"`
	Gold         int64      `gorm:"default:0" json:"gold"`
	Diamond      int64      `gorm:"default:0" json:"diamond"`
}

// LevelFor derives the account level from total experience.
func LevelFor(experience int64) int {
	return 1 + int(experience/100)
}
