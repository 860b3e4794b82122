package storage

import (
	"sort"
	"time"

	"github.com/mizunashi/gamevault/server/model"
	"gorm.io/datatypes"
)

// CreateItem inserts a new item stack for the account.
func (s *Store) CreateItem(accountID int64, templateID, itemType string, count, level int, extra datatypes.JSON) (*model.Item, error) {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	item := &model.Item{
		ID:         s.nextItemID,
		AccountID:  accountID,
		TemplateID: templateID,
		Type:       itemType,
		Count:      count,
		Level:      level,
		Extra:      extra,
		AcquiredAt: time.Now().UTC(),
		SlotIndex:  -1,
	}
	s.nextItemID++
	s.items[item.ID] = item
	s.saveItemsLocked()

	cp := *item
	return &cp, nil
}

// ItemByID returns a copy of the item or ErrNotFound.
func (s *Store) ItemByID(id int64) (*model.Item, error) {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

// ItemsByAccount returns the account's items ordered by acquisition (id).
func (s *Store) ItemsByAccount(accountID int64) []*model.Item {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	result := make([]*model.Item, 0)
	for _, item := range s.items {
		if item.AccountID == accountID {
			cp := *item
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// UpdateItem replaces the stored record wholesale.
func (s *Store) UpdateItem(item *model.Item) error {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return ErrNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	s.saveItemsLocked()
	return nil
}

// DeleteItem removes the item. Unknown ids are a no-op.
func (s *Store) DeleteItem(id int64) {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	s.saveItemsLocked()
}

// UpdateItemCount applies delta to the stack count. It fails without
// mutating when the item is unknown or the resulting count would be
// negative. A count of exactly zero deletes the stack.
func (s *Store) UpdateItemCount(id int64, delta int) bool {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return false
	}
	next := item.Count + delta
	if next < 0 {
		return false
	}
	if next == 0 {
		delete(s.items, id)
	} else {
		item.Count = next
	}
	s.saveItemsLocked()
	return true
}
