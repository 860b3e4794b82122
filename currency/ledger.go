// Package currency adjusts account balances under the accounts family lock.
// Balances never go negative; level is always derived from experience.
package currency

import (
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
)

// Currency field names accepted by Adjust.
const (
	FieldGold       = "gold"
	FieldDiamond    = "diamond"
	FieldExperience = "experience"
)

// Ledger mutates account balances.
type Ledger struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewLedger creates a Ledger.
func NewLedger(store *storage.Store, logger *zap.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

// AddGold credits gold. Non-positive amounts and unknown accounts change
// nothing and return false.
func (l *Ledger) AddGold(accountID, amount int64, reason string) bool {
	if amount <= 0 {
		return false
	}
	ok, err := l.store.MutateAccount(accountID, func(acc *model.Account) bool {
		acc.Gold += amount
		return true
	})
	if err != nil || !ok {
		return false
	}
	l.logger.Debug("gold credited",
		zap.Int64("account_id", accountID), zap.Int64("amount", amount), zap.String("reason", reason))
	return true
}

// DeductGold debits gold. It fails without mutating when the balance would
// go negative.
func (l *Ledger) DeductGold(accountID, amount int64, reason string) bool {
	if amount <= 0 {
		return false
	}
	ok, err := l.store.MutateAccount(accountID, func(acc *model.Account) bool {
		if acc.Gold < amount {
			return false
		}
		acc.Gold -= amount
		return true
	})
	if err != nil || !ok {
		return false
	}
	l.logger.Debug("gold debited",
		zap.Int64("account_id", accountID), zap.Int64("amount", amount), zap.String("reason", reason))
	return true
}

// AddDiamond credits diamonds. Same contract as AddGold.
func (l *Ledger) AddDiamond(accountID, amount int64, reason string) bool {
	if amount <= 0 {
		return false
	}
	ok, err := l.store.MutateAccount(accountID, func(acc *model.Account) bool {
		acc.Diamond += amount
		return true
	})
	if err != nil || !ok {
		return false
	}
	l.logger.Debug("diamond credited",
		zap.Int64("account_id", accountID), zap.Int64("amount", amount), zap.String("reason", reason))
	return true
}

// DeductDiamond debits diamonds. Same contract as DeductGold.
func (l *Ledger) DeductDiamond(accountID, amount int64, reason string) bool {
	if amount <= 0 {
		return false
	}
	ok, err := l.store.MutateAccount(accountID, func(acc *model.Account) bool {
		if acc.Diamond < amount {
			return false
		}
		acc.Diamond -= amount
		return true
	})
	if err != nil || !ok {
		return false
	}
	l.logger.Debug("diamond debited",
		zap.Int64("account_id", accountID), zap.Int64("amount", amount), zap.String("reason", reason))
	return true
}

// AddExperience credits experience and recomputes the level from the new
// total.
func (l *Ledger) AddExperience(accountID, amount int64) bool {
	if amount <= 0 {
		return false
	}
	ok, err := l.store.MutateAccount(accountID, func(acc *model.Account) bool {
		acc.Experience += amount
		acc.Level = model.LevelFor(acc.Experience)
		return true
	})
	return err == nil && ok
}

// Adjust credits the named currency field. Used by the admin surface.
func (l *Ledger) Adjust(accountID int64, field string, amount int64, reason string) bool {
	switch field {
	case FieldGold:
		return l.AddGold(accountID, amount, reason)
	case FieldDiamond:
		return l.AddDiamond(accountID, amount, reason)
	case FieldExperience:
		return l.AddExperience(accountID, amount)
	default:
		return false
	}
}
