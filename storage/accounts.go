package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/mizunashi/gamevault/server/model"
)

// ErrDuplicateUsername is returned when a username (any case variant) is
// already taken.
var ErrDuplicateUsername = errors.New("storage: username already taken")

func lowerUsername(username string) string {
	return strings.ToLower(username)
}

// CreateAccount inserts a new account and updates the username index
// atomically with it. Username uniqueness is case-insensitive.
func (s *Store) CreateAccount(username, passwordHash, salt, displayName, email string) (*model.Account, error) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	key := lowerUsername(username)
	if _, taken := s.usernameIndex[key]; taken {
		return nil, ErrDuplicateUsername
	}

	if displayName == "" {
		displayName = username
	}
	acc := &model.Account{
		ID:           s.nextAccountID,
		Username:     username,
		PasswordHash: passwordHash,
		Salt:         salt,
		DisplayName:  displayName,
		Email:        email,
		CreatedAt:    time.Now().UTC(),
		Level:        1,
	}
	s.nextAccountID++
	s.accounts[acc.ID] = acc
	s.usernameIndex[key] = acc.ID
	s.saveAccountsLocked()

	cp := *acc
	return &cp, nil
}

// AccountByID returns a copy of the account or ErrNotFound.
func (s *Store) AccountByID(id int64) (*model.Account, error) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

// AccountByUsername looks up an account case-insensitively.
func (s *Store) AccountByUsername(username string) (*model.Account, error) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	id, ok := s.usernameIndex[lowerUsername(username)]
	if !ok {
		return nil, ErrNotFound
	}
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

// UsernameExists reports whether any case variant of username is taken.
func (s *Store) UsernameExists(username string) bool {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	_, ok := s.usernameIndex[lowerUsername(username)]
	return ok
}

// AccountIDs returns the ids of every account.
func (s *Store) AccountIDs() []int64 {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	ids := make([]int64, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	return ids
}

// UpdateAccount replaces the stored record wholesale. The username and its
// index entry are not changed by this call. A caller holding a copy read
// before another writer's change will clobber that change; callers editing
// individual fields should use MutateAccount instead.
func (s *Store) UpdateAccount(acc *model.Account) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	current, ok := s.accounts[acc.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *acc
	cp.Username = current.Username
	s.accounts[acc.ID] = &cp
	s.saveAccountsLocked()
	return nil
}

// MutateAccount runs fn on the live record under the family lock. If fn
// returns true the change is kept and the family is saved; otherwise the
// record is left exactly as it was. Returns ErrNotFound for unknown ids.
func (s *Store) MutateAccount(id int64, fn func(acc *model.Account) bool) (bool, error) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return false, ErrNotFound
	}
	before := *acc
	if !fn(acc) {
		*acc = before
		return false, nil
	}
	s.saveAccountsLocked()
	return true, nil
}

// TouchLastLogin stamps the account's last-login time.
func (s *Store) TouchLastLogin(id int64) error {
	_, err := s.MutateAccount(id, func(acc *model.Account) bool {
		now := time.Now().UTC()
		acc.LastLoginAt = &now
		return true
	})
	return err
}
