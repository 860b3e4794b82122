// Package inventory manages per-account item stacks. Slot/type
// compatibility is gameplay policy and stays outside this service; equip
// operations only verify ownership.
package inventory

import (
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TypeReward tags items created by reward/mail claim expansion.
const TypeReward = "reward"

// Service handles all bag operations.
type Service struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewService creates an inventory Service.
func NewService(store *storage.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns the account's items, oldest first.
func (svc *Service) List(accountID int64) []*model.Item {
	return svc.store.ItemsByAccount(accountID)
}

// Add creates a new item stack. count and level are floored at 1.
func (svc *Service) Add(accountID int64, templateID, itemType string, count, level int, extra datatypes.JSON) (*model.Item, error) {
	if count < 1 {
		count = 1
	}
	if level < 1 {
		level = 1
	}
	item, err := svc.store.CreateItem(accountID, templateID, itemType, count, level, extra)
	if err != nil {
		return nil, err
	}
	svc.logger.Debug("item added",
		zap.Int64("account_id", accountID),
		zap.String("template_id", templateID),
		zap.Int("count", count))
	return item, nil
}

// AddBatch creates one stack per grant entry, used by claim expansion.
func (svc *Service) AddBatch(accountID int64, grants []model.ItemGrant) []*model.Item {
	created := make([]*model.Item, 0, len(grants))
	for _, g := range grants {
		item, err := svc.Add(accountID, g.TemplateID, TypeReward, g.Count, g.Level, nil)
		if err != nil {
			svc.logger.Warn("batch item add failed",
				zap.Int64("account_id", accountID),
				zap.String("template_id", g.TemplateID),
				zap.Error(err))
			continue
		}
		created = append(created, item)
	}
	return created
}

// Get returns the item or storage.ErrNotFound.
func (svc *Service) Get(itemID int64) (*model.Item, error) {
	return svc.store.ItemByID(itemID)
}

// Update replaces the stored item record.
func (svc *Service) Update(item *model.Item) error {
	return svc.store.UpdateItem(item)
}

// Delete removes the item outright.
func (svc *Service) Delete(itemID int64) {
	svc.store.DeleteItem(itemID)
}

// AdjustCount applies delta to the stack. It fails when the result would be
// negative; a result of exactly zero deletes the stack.
func (svc *Service) AdjustCount(itemID int64, delta int) bool {
	return svc.store.UpdateItemCount(itemID, delta)
}

// Use consumes count units after verifying ownership and sufficiency.
func (svc *Service) Use(accountID, itemID int64, count int) bool {
	if count < 1 {
		return false
	}
	item, err := svc.store.ItemByID(itemID)
	if err != nil || item.AccountID != accountID {
		return false
	}
	if item.Count < count {
		return false
	}
	return svc.store.UpdateItemCount(itemID, -count)
}

// SetEquipped flips the equipped flag after verifying ownership.
func (svc *Service) SetEquipped(accountID, itemID int64, equipped bool) bool {
	item, err := svc.store.ItemByID(itemID)
	if err != nil || item.AccountID != accountID {
		return false
	}
	item.Equipped = equipped
	return svc.store.UpdateItem(item) == nil
}
