package model

import "time"

// LoginLog records one login attempt. The family is append-only and bounded
// to the most recent 1000 entries, oldest evicted first.
type LoginLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  int64     `gorm:"index:idx_loginlog_account;not null" json:"account_id"`
	LoginTime  time.Time `gorm:"autoCreateTime" json:"login_time"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	DeviceInfo string    `gorm:"size:128" json:"device_info"`
	Success    bool      `json:"success"`
	FailReason string    `gorm:"size:64" json:"fail_reason,omitempty"`
}
