// Package reward grants and claims reward payloads. A grant's payload is
// opaque until claim time, when it is expanded into ledger credits and
// inventory stacks.
package reward

import (
	"fmt"
	"sync"
	"time"

	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/inventory"
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
)

// Claim failure messages shown to the player.
const (
	MsgNotFound       = "奖励不存在"
	MsgForbidden      = "无权领取此奖励"
	MsgAlreadyClaimed = "奖励已领取"
	MsgExpired        = "奖励已过期"
	MsgClaimed        = "领取成功"
)

// Daily login reward tuning.
const (
	dailyGoldPerDay    = 100
	dailyExpPerDay     = 50
	weeklyBonusDiamond = 10
	weeklyBonusItemID  = "reward_box_001"
)

// ClaimResult reports the outcome of a claim attempt.
type ClaimResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Content *model.RewardContent `json:"content,omitempty"`
}

// Engine grants and claims rewards.
type Engine struct {
	store  *storage.Store
	ledger *currency.Ledger
	inv    *inventory.Service
	logger *zap.Logger

	// claimMu serializes live claim attempts so two racing claims of the
	// same grant cannot both expand its payload.
	claimMu sync.Mutex
}

// NewEngine creates a reward Engine.
func NewEngine(store *storage.Store, ledger *currency.Ledger, inv *inventory.Service, logger *zap.Logger) *Engine {
	return &Engine{store: store, ledger: ledger, inv: inv, logger: logger}
}

// CreateGrant records a new unclaimed grant for the account.
func (e *Engine) CreateGrant(accountID int64, rewardType string, content *model.RewardContent, description string, expiresAt *time.Time) (*model.RewardGrant, error) {
	raw, err := content.Encode()
	if err != nil {
		return nil, err
	}
	grant, err := e.store.CreateReward(accountID, rewardType, raw, description, expiresAt)
	if err != nil {
		return nil, err
	}
	e.logger.Info("reward granted",
		zap.Int64("grant_id", grant.ID),
		zap.Int64("account_id", accountID),
		zap.String("type", rewardType))
	return grant, nil
}

// BatchGrant records one independent grant per account id.
func (e *Engine) BatchGrant(accountIDs []int64, rewardType string, content *model.RewardContent, description string, expiresAt *time.Time) ([]*model.RewardGrant, error) {
	raw, err := content.Encode()
	if err != nil {
		return nil, err
	}
	grants := e.store.BatchCreateRewards(accountIDs, rewardType, raw, description, expiresAt)
	e.logger.Info("rewards batch granted",
		zap.Int("count", len(grants)),
		zap.String("type", rewardType))
	return grants, nil
}

// ListUnclaimed returns the account's claimable grants, newest first.
func (e *Engine) ListUnclaimed(accountID int64) []*model.RewardGrant {
	return e.store.UnclaimedRewards(accountID)
}

// Claim attempts to claim the grant for the account. Checks run in a fixed
// order: existence, ownership, claimed flag, expiry. On success the payload
// is credited to the ledger and inventory before the claimed flag is
// recorded, so a crash in between can pay out twice but never lose a claim.
func (e *Engine) Claim(accountID, grantID int64) ClaimResult {
	e.claimMu.Lock()
	defer e.claimMu.Unlock()

	grant, err := e.store.RewardByID(grantID)
	if err != nil {
		return ClaimResult{Message: MsgNotFound}
	}
	if grant.AccountID != accountID {
		return ClaimResult{Message: MsgForbidden}
	}
	if grant.Claimed {
		return ClaimResult{Message: MsgAlreadyClaimed}
	}
	if grant.Expired(time.Now().UTC()) {
		return ClaimResult{Message: MsgExpired}
	}

	content, err := model.DecodeContent(grant.Content)
	if err != nil {
		e.logger.Error("reward payload decode failed",
			zap.Int64("grant_id", grantID), zap.Error(err))
		return ClaimResult{Message: MsgNotFound}
	}

	e.apply(accountID, content, fmt.Sprintf("reward:%d", grantID))

	if !e.store.MarkRewardClaimed(grantID, accountID) {
		// The re-check under the family lock failed after payout. With
		// claims serialized above this only happens if the grant expired
		// between the check and the flip.
		e.logger.Warn("reward claim flag flip failed after payout",
			zap.Int64("grant_id", grantID),
			zap.Int64("account_id", accountID))
	}

	e.logger.Info("reward claimed",
		zap.Int64("grant_id", grantID),
		zap.Int64("account_id", accountID),
		zap.String("type", grant.Type))
	return ClaimResult{Success: true, Message: MsgClaimed, Content: content}
}

func (e *Engine) apply(accountID int64, content *model.RewardContent, reason string) {
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
}

// DailyLoginContent builds the payload for the given consecutive login day.
// Every seventh day adds a diamond bonus and a reward box.
func DailyLoginContent(day int) *model.RewardContent {
	if day < 1 {
		day = 1
	}
	content := &model.RewardContent{
		Gold:       int64(dailyGoldPerDay * day),
		Experience: int64(dailyExpPerDay * day),
	}
	if day%7 == 0 {
		content.Diamond = weeklyBonusDiamond
		content.Items = []model.ItemGrant{{TemplateID: weeklyBonusItemID, Count: 1}}
	}
	return content
}

// SendDailyLoginReward grants the daily login reward for the given
// consecutive day. Tracking which day the player is on is the caller's job.
func (e *Engine) SendDailyLoginReward(accountID int64, day int, expiry time.Duration) (*model.RewardGrant, error) {
	content := DailyLoginContent(day)
	expiresAt := time.Now().UTC().Add(expiry)
	description := fmt.Sprintf("连续登录第%d天奖励", day)
	return e.CreateGrant(accountID, model.RewardTypeDailyLogin, content, description, &expiresAt)
}
