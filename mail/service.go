// Package mail delivers system and player mail. Attachments are reward
// payloads claimed through the same ledger and inventory path as grants.
package mail

import (
	"fmt"
	"sync"
	"time"

	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/inventory"
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Mail operation messages shown to the player.
const (
	MsgNotFound       = "邮件不存在"
	MsgForbidden      = "无权操作此邮件"
	MsgNoAttachments  = "邮件没有附件"
	MsgAlreadyClaimed = "附件已领取"
	MsgClaimed        = "领取成功"
)

// ClaimResult reports the outcome of an attachment claim.
type ClaimResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Content *model.RewardContent `json:"content,omitempty"`
}

// Engine sends mail and claims attachments.
type Engine struct {
	store  *storage.Store
	ledger *currency.Ledger
	inv    *inventory.Service
	logger *zap.Logger

	playerMailExpiry time.Duration

	// claimMu serializes live attachment claims the same way the reward
	// engine serializes grant claims.
	claimMu sync.Mutex
}

// NewEngine creates a mail Engine. playerMailExpiry bounds the lifetime of
// player-to-player mail; system mail expiry is chosen per message.
func NewEngine(store *storage.Store, ledger *currency.Ledger, inv *inventory.Service, playerMailExpiry time.Duration, logger *zap.Logger) *Engine {
	return &Engine{
		store:            store,
		ledger:           ledger,
		inv:              inv,
		playerMailExpiry: playerMailExpiry,
		logger:           logger,
	}
}

// SendSystemMail delivers mail with no sender, optionally carrying an
// attachment payload.
func (e *Engine) SendSystemMail(toAccountID int64, title, body string, attachments *model.RewardContent, expiresAt *time.Time) (*model.Mail, error) {
	var raw datatypes.JSON
	if attachments != nil && !attachments.Empty() {
		encoded, err := attachments.Encode()
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	mail, err := e.store.CreateMail(toAccountID, nil, title, body, raw, expiresAt)
	if err != nil {
		return nil, err
	}
	e.logger.Info("system mail sent",
		zap.Int64("mail_id", mail.ID),
		zap.Int64("to_account_id", toAccountID))
	return mail, nil
}

// SendPlayerMail delivers mail between players. Player mail never carries
// attachments and expires after the configured lifetime.
func (e *Engine) SendPlayerMail(fromAccountID, toAccountID int64, title, body string) (*model.Mail, error) {
	expiresAt := time.Now().UTC().Add(e.playerMailExpiry)
	mail, err := e.store.CreateMail(toAccountID, &fromAccountID, title, body, nil, &expiresAt)
	if err != nil {
		return nil, err
	}
	e.logger.Info("player mail sent",
		zap.Int64("mail_id", mail.ID),
		zap.Int64("from_account_id", fromAccountID),
		zap.Int64("to_account_id", toAccountID))
	return mail, nil
}

// List returns the account's visible mail, newest first.
func (e *Engine) List(accountID int64) []*model.Mail {
	return e.store.MailsByAccount(accountID, false)
}

// Get returns the mail or storage.ErrNotFound.
func (e *Engine) Get(mailID int64) (*model.Mail, error) {
	return e.store.MailByID(mailID)
}

// MarkRead marks the mail read after verifying the caller owns it.
func (e *Engine) MarkRead(accountID, mailID int64) error {
	mail, err := e.store.MailByID(mailID)
	if err != nil {
		return err
	}
	if mail.ToAccountID != accountID {
		return storage.ErrNotFound
	}
	return e.store.MarkMailRead(mailID)
}

// ClaimAttachments attempts to claim the mail's attachment payload. Checks
// run in a fixed order: existence, ownership, payload presence, claimed
// flag. There is no expiry check; mail that reached the inbox stays
// claimable. The payload is credited before the claimed flag is recorded.
func (e *Engine) ClaimAttachments(accountID, mailID int64) ClaimResult {
	e.claimMu.Lock()
	defer e.claimMu.Unlock()

	mail, err := e.store.MailByID(mailID)
	if err != nil {
		return ClaimResult{Message: MsgNotFound}
	}
	if mail.ToAccountID != accountID {
		return ClaimResult{Message: MsgForbidden}
	}
	if !mail.HasAttachments() {
		return ClaimResult{Message: MsgNoAttachments}
	}
	if mail.AttachmentsClaimed {
		return ClaimResult{Message: MsgAlreadyClaimed}
	}

	content, err := model.DecodeContent(mail.Attachments)
	if err != nil {
		e.logger.Error("mail attachment decode failed",
			zap.Int64("mail_id", mailID), zap.Error(err))
		return ClaimResult{Message: MsgNoAttachments}
	}

	reason := fmt.Sprintf("mail:%d", mailID)
	if content.Gold > 0 {
		e.ledger.AddGold(accountID, content.Gold, reason)
	}
	if content.Diamond > 0 {
		e.ledger.AddDiamond(accountID, content.Diamond, reason)
	}
	if content.Experience > 0 {
		e.ledger.AddExperience(accountID, content.Experience)
	}
	if len(content.Items) > 0 {
		e.inv.AddBatch(accountID, content.Items)
	}

	if !e.store.MarkAttachmentsClaimed(mailID, accountID) {
		e.logger.Warn("mail attachment flag flip failed after payout",
			zap.Int64("mail_id", mailID),
			zap.Int64("account_id", accountID))
	}

	e.logger.Info("mail attachments claimed",
		zap.Int64("mail_id", mailID),
		zap.Int64("account_id", accountID))
	return ClaimResult{Success: true, Message: MsgClaimed, Content: content}
}

// Delete soft-deletes the mail after verifying the caller owns it. The
// record is hidden from listings, never removed.
func (e *Engine) Delete(accountID, mailID int64) error {
	mail, err := e.store.MailByID(mailID)
	if err != nil {
		return err
	}
	if mail.ToAccountID != accountID {
		return storage.ErrNotFound
	}
	return e.store.SoftDeleteMail(mailID)
}
