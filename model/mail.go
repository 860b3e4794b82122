package model

import (
	"time"

	"gorm.io/datatypes"
)

// Mail is an in-game mailbox message. FromAccountID is nil for system mail.
// AttachmentsClaimed is a one-way transition and requires a non-empty
// attachment payload. Deleted is a soft flag; the record stays for audit.
type Mail struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ToAccountID        int64          `gorm:"index:idx_mail_to;not null" json:"to_account_id"`
	FromAccountID      *int64         `json:"from_account_id"`
	Title              string         `gorm:"size:64" json:"title"`
	Body               string         `gorm:"type:text" json:"body"`
	Attachments        datatypes.JSON `json:"attachments,omitempty"` // serialized RewardContent
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	ReadAt             *time.Time     `json:"read_at"`
	ExpiresAt          *time.Time     `json:"expires_at"`
	Read               bool           `gorm:"default:false" json:"read"`
	AttachmentsClaimed bool           `gorm:"default:false" json:"attachments_claimed"`
	Deleted            bool           `gorm:"default:false" json:"deleted"`
}

// HasAttachments reports whether the mail carries a claimable payload.
func (m *Mail) HasAttachments() bool {
	return len(m.Attachments) > 0
}
