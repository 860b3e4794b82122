package storage

import (
	"sort"
	"time"

	"github.com/mizunashi/gamevault/server/model"
	"gorm.io/datatypes"
)

// CreateReward inserts a new unclaimed grant for the account.
func (s *Store) CreateReward(accountID int64, rewardType string, content datatypes.JSON, description string, expiresAt *time.Time) (*model.RewardGrant, error) {
	s.rewardsMu.Lock()
	defer s.rewardsMu.Unlock()

	grant := s.insertRewardLocked(accountID, rewardType, content, description, expiresAt)
	s.saveRewardsLocked()

	cp := *grant
	return &cp, nil
}

// BatchCreateRewards inserts one independent grant per account id and saves
// the family once.
func (s *Store) BatchCreateRewards(accountIDs []int64, rewardType string, content datatypes.JSON, description string, expiresAt *time.Time) []*model.RewardGrant {
	s.rewardsMu.Lock()
	defer s.rewardsMu.Unlock()

	created := make([]*model.RewardGrant, 0, len(accountIDs))
	for _, id := range accountIDs {
		grant := s.insertRewardLocked(id, rewardType, content, description, expiresAt)
		cp := *grant
		created = append(created, &cp)
	}
	s.saveRewardsLocked()
	return created
}

func (s *Store) insertRewardLocked(accountID int64, rewardType string, content datatypes.JSON, description string, expiresAt *time.Time) *model.RewardGrant {
	grant := &model.RewardGrant{
		ID:          s.nextRewardID,
		AccountID:   accountID,
		Type:        rewardType,
		Content:     content,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
	}
	s.nextRewardID++
	s.rewards[grant.ID] = grant
	return grant
}

// RewardByID returns a copy of the grant or ErrNotFound.
func (s *Store) RewardByID(id int64) (*model.RewardGrant, error) {
	s.rewardsMu.Lock()
	defer s.rewardsMu.Unlock()

	grant, ok := s.rewards[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *grant
	return &cp, nil
}

// UnclaimedRewards returns the account's claimable grants, newest first.
// Expired grants are filtered out.
func (s *Store) UnclaimedRewards(accountID int64) []*model.RewardGrant {
	s.rewardsMu.Lock()
	defer s.rewardsMu.Unlock()

	now := time.Now().UTC()
	result := make([]*model.RewardGrant, 0)
	for _, grant := range s.rewards {
		if grant.AccountID != accountID || grant.Claimed || grant.Expired(now) {
			continue
		}
		cp := *grant
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// MarkRewardClaimed flips the claimed flag. It re-checks ownership, the
// claimed flag and expiry under the family lock and reports whether the flip
// happened; the transition is one-way.
func (s *Store) MarkRewardClaimed(id, accountID int64) bool {
	s.rewardsMu.Lock()
	defer s.rewardsMu.Unlock()

	grant, ok := s.rewards[id]
	if !ok || grant.AccountID != accountID || grant.Claimed {
		return false
	}
	now := time.Now().UTC()
	if grant.Expired(now) {
		return false
	}
	grant.Claimed = true
	grant.ClaimedAt = &now
	s.saveRewardsLocked()
	return true
}
