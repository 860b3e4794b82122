// Package account manages account records: creation with unique usernames,
// lookups, profile updates and ban state. Credential checking and session
// minting live in the auth package; numeric balances in the currency
// package.
package account

import (
	"errors"

	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
)

// ErrDuplicateUsername mirrors the storage sentinel for callers that only
// import this package.
var ErrDuplicateUsername = storage.ErrDuplicateUsername

// ErrNotFound is returned for unknown account ids or usernames.
var ErrNotFound = storage.ErrNotFound

// Service is the account store.
type Service struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewService creates an account Service.
func NewService(store *storage.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create registers a new account with a fresh salt and password digest.
func (svc *Service) Create(username, password, displayName, email string) (*model.Account, error) {
	salt := GenerateSalt()
	hash := HashPassword(password, salt)
	acc, err := svc.store.CreateAccount(username, hash, salt, displayName, email)
	if err != nil {
		return nil, err
	}
	svc.logger.Info("account created",
		zap.Int64("account_id", acc.ID),
		zap.String("username", acc.Username))
	return acc, nil
}

// GetByID returns the account or ErrNotFound.
func (svc *Service) GetByID(id int64) (*model.Account, error) {
	return svc.store.AccountByID(id)
}

// GetByUsername looks the account up case-insensitively.
func (svc *Service) GetByUsername(username string) (*model.Account, error) {
	return svc.store.AccountByUsername(username)
}

// UsernameExists reports whether any case variant of username is taken.
func (svc *Service) UsernameExists(username string) bool {
	return svc.store.UsernameExists(username)
}

// UpdateProfile changes display name and email in place. Empty arguments
// keep the current value. Mutating under the family lock instead of
// replacing a read copy keeps a concurrent currency credit from being
// overwritten by a stale snapshot.
func (svc *Service) UpdateProfile(id int64, displayName, email string) error {
	_, err := svc.store.MutateAccount(id, func(acc *model.Account) bool {
		changed := false
		if displayName != "" && displayName != acc.DisplayName {
			acc.DisplayName = displayName
			changed = true
		}
		if email != "" && email != acc.Email {
			acc.Email = email
			changed = true
		}
		return changed
	})
	return err
}

// TouchLastLogin stamps the last-login time.
func (svc *Service) TouchLastLogin(id int64) error {
	return svc.store.TouchLastLogin(id)
}

// Ban marks the account banned. Bans never delete data; only the auth gate
// consults the flag.
func (svc *Service) Ban(id int64, reason string) error {
	_, err := svc.store.MutateAccount(id, func(acc *model.Account) bool {
		acc.Banned = true
		acc.BanReason = reason
		return true
	})
	if err == nil {
		svc.logger.Info("account banned", zap.Int64("account_id", id), zap.String("reason", reason))
	}
	return err
}

// Unban clears the ban state.
func (svc *Service) Unban(id int64) error {
	_, err := svc.store.MutateAccount(id, func(acc *model.Account) bool {
		acc.Banned = false
		acc.BanReason = ""
		return true
	})
	if err == nil {
		svc.logger.Info("account unbanned", zap.Int64("account_id", id))
	}
	return err
}

// ChangePassword verifies the old password and rotates salt and digest.
func (svc *Service) ChangePassword(id int64, oldPassword, newPassword string) error {
	acc, err := svc.store.AccountByID(id)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, acc.Salt, acc.PasswordHash) {
		return errors.New("account: old password mismatch")
	}
	salt := GenerateSalt()
	hash := HashPassword(newPassword, salt)
	_, err = svc.store.MutateAccount(id, func(acc *model.Account) bool {
		acc.Salt = salt
		acc.PasswordHash = hash
		return true
	})
	return err
}

// IDs returns every account id, for broadcast operations.
func (svc *Service) IDs() []int64 {
	return svc.store.AccountIDs()
}
