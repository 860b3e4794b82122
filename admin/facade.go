// Package admin bundles the operator-facing actions behind one facade so
// the REST layer stays a thin binding.
package admin

import (
	"context"
	"strconv"
	"time"

	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/cache"
	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/inventory"
	"github.com/mizunashi/gamevault/server/loginlog"
	"github.com/mizunashi/gamevault/server/mail"
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/reward"
	"github.com/mizunashi/gamevault/server/session"
	"go.uber.org/zap"
)

// KickChannel carries account ids whose sessions were force-revoked, so
// connected transports can drop them.
const KickChannel = "account_kick"

// Facade exposes operator actions.
type Facade struct {
	accounts *account.Service
	ledger   *currency.Ledger
	inv      *inventory.Service
	rewards  *reward.Engine
	mails    *mail.Engine
	sessions *session.Manager
	logs     *loginlog.Service
	pubsub   cache.PubSub
	logger   *zap.Logger
}

// NewFacade creates an admin Facade.
func NewFacade(
	accounts *account.Service,
	ledger *currency.Ledger,
	inv *inventory.Service,
	rewards *reward.Engine,
	mails *mail.Engine,
	sessions *session.Manager,
	logs *loginlog.Service,
	pubsub cache.PubSub,
	logger *zap.Logger,
) *Facade {
	return &Facade{
		accounts: accounts,
		ledger:   ledger,
		inv:      inv,
		rewards:  rewards,
		mails:    mails,
		sessions: sessions,
		logs:     logs,
		pubsub:   pubsub,
		logger:   logger,
	}
}

// Ban marks the account banned, revokes its live sessions and announces the
// kick.
func (f *Facade) Ban(ctx context.Context, accountID int64, reason string) error {
	if err := f.accounts.Ban(accountID, reason); err != nil {
		return err
	}
	if err := f.sessions.RevokeAccount(ctx, accountID); err != nil {
		f.logger.Warn("session revoke on ban failed",
			zap.Int64("account_id", accountID), zap.Error(err))
	}
	if err := f.pubsub.Publish(ctx, KickChannel, strconv.FormatInt(accountID, 10)); err != nil {
		f.logger.Warn("kick publish failed",
			zap.Int64("account_id", accountID), zap.Error(err))
	}
	return nil
}

// Unban clears the ban state. Existing sessions are not restored.
func (f *Facade) Unban(accountID int64) error {
	return f.accounts.Unban(accountID)
}

// AdjustCurrency credits the named currency field on the account.
func (f *Facade) AdjustCurrency(accountID int64, field string, amount int64) bool {
	return f.ledger.Adjust(accountID, field, amount, "admin")
}

// GiveItem puts an item stack directly into the account's bag.
func (f *Facade) GiveItem(accountID int64, templateID string, count, level int) (*model.Item, error) {
	return f.inv.Add(accountID, templateID, inventory.TypeReward, count, level, nil)
}

// GrantReward creates an admin-typed reward grant for one account.
func (f *Facade) GrantReward(accountID int64, content *model.RewardContent, description string, expiresAt *time.Time) (*model.RewardGrant, error) {
	return f.rewards.CreateGrant(accountID, model.RewardTypeAdmin, content, description, expiresAt)
}

// GrantRewardBatch creates one grant per listed account.
func (f *Facade) GrantRewardBatch(accountIDs []int64, content *model.RewardContent, description string, expiresAt *time.Time) ([]*model.RewardGrant, error) {
	return f.rewards.BatchGrant(accountIDs, model.RewardTypeAdmin, content, description, expiresAt)
}

// GrantRewardAll creates one grant per registered account.
func (f *Facade) GrantRewardAll(content *model.RewardContent, description string, expiresAt *time.Time) (int, error) {
	ids := f.accounts.IDs()
	grants, err := f.rewards.BatchGrant(ids, model.RewardTypeAdmin, content, description, expiresAt)
	if err != nil {
		return 0, err
	}
	return len(grants), nil
}

// SendDailyLoginReward grants the daily login reward for the given day.
func (f *Facade) SendDailyLoginReward(accountID int64, day int, expiry time.Duration) (*model.RewardGrant, error) {
	return f.rewards.SendDailyLoginReward(accountID, day, expiry)
}

// SendSystemMail delivers system mail to one account.
func (f *Facade) SendSystemMail(accountID int64, title, body string, attachments *model.RewardContent, expiresAt *time.Time) (*model.Mail, error) {
	return f.mails.SendSystemMail(accountID, title, body, attachments, expiresAt)
}

// SendSystemMailAll delivers the same system mail to every account and
// returns how many were sent.
func (f *Facade) SendSystemMailAll(title, body string, attachments *model.RewardContent, expiresAt *time.Time) (int, error) {
	sent := 0
	for _, id := range f.accounts.IDs() {
		if _, err := f.mails.SendSystemMail(id, title, body, attachments, expiresAt); err != nil {
			f.logger.Warn("broadcast mail failed",
				zap.Int64("account_id", id), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// LoginLogs returns the account's recent login attempts, newest first.
func (f *Facade) LoginLogs(accountID int64, limit int) []*model.LoginLog {
	f.logs.Flush()
	return f.logs.Recent(accountID, limit)
}
