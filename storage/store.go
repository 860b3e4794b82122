package storage

import (
	"errors"
	"sync"

	"github.com/mizunashi/gamevault/server/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a record id or username is unknown.
var ErrNotFound = errors.New("storage: record not found")

// Store holds every record family in memory and is the single source of
// truth for them. One mutex guards each family; every mutating call rewrites
// the whole affected family through the driver before returning. A failed
// durable write is logged and the in-memory state stays authoritative; the
// next mutation attempts a fresh full save.
type Store struct {
	driver Driver
	logger *zap.Logger

	accountsMu    sync.Mutex
	accounts      map[int64]*model.Account
	usernameIndex map[string]int64 // lowercase username → account id
	nextAccountID int64

	itemsMu    sync.Mutex
	items      map[int64]*model.Item
	nextItemID int64

	rewardsMu    sync.Mutex
	rewards      map[int64]*model.RewardGrant
	nextRewardID int64

	mailsMu    sync.Mutex
	mails      map[int64]*model.Mail
	nextMailID int64

	logsMu    sync.Mutex
	logs      []*model.LoginLog
	nextLogID int64
}

// New creates a Store bound to the given driver. Call Load before use.
func New(driver Driver, logger *zap.Logger) *Store {
	return &Store{
		driver:        driver,
		logger:        logger,
		accounts:      make(map[int64]*model.Account),
		usernameIndex: make(map[string]int64),
		nextAccountID: 1,
		items:         make(map[int64]*model.Item),
		nextItemID:    1,
		rewards:       make(map[int64]*model.RewardGrant),
		nextRewardID:  1,
		mails:         make(map[int64]*model.Mail),
		nextMailID:    1,
		nextLogID:     1,
	}
}

// Load reads every family from the driver into memory. The username index
// is rebuilt from the loaded accounts rather than persisted.
func (s *Store) Load() error {
	accounts, nextAccount, err := s.driver.LoadAccounts()
	if err != nil {
		return err
	}
	items, nextItem, err := s.driver.LoadItems()
	if err != nil {
		return err
	}
	rewards, nextReward, err := s.driver.LoadRewards()
	if err != nil {
		return err
	}
	mails, nextMail, err := s.driver.LoadMails()
	if err != nil {
		return err
	}
	logs, nextLog, err := s.driver.LoadLoginLogs()
	if err != nil {
		return err
	}

	s.accountsMu.Lock()
	s.accounts = make(map[int64]*model.Account, len(accounts))
	s.usernameIndex = make(map[string]int64, len(accounts))
	for _, a := range accounts {
		s.accounts[a.ID] = a
		s.usernameIndex[lowerUsername(a.Username)] = a.ID
	}
	s.nextAccountID = counterFloor(nextAccount)
	s.accountsMu.Unlock()

	s.itemsMu.Lock()
	s.items = make(map[int64]*model.Item, len(items))
	for _, it := range items {
		s.items[it.ID] = it
	}
	s.nextItemID = counterFloor(nextItem)
	s.itemsMu.Unlock()

	s.rewardsMu.Lock()
	s.rewards = make(map[int64]*model.RewardGrant, len(rewards))
	for _, r := range rewards {
		s.rewards[r.ID] = r
	}
	s.nextRewardID = counterFloor(nextReward)
	s.rewardsMu.Unlock()

	s.mailsMu.Lock()
	s.mails = make(map[int64]*model.Mail, len(mails))
	for _, m := range mails {
		s.mails[m.ID] = m
	}
	s.nextMailID = counterFloor(nextMail)
	s.mailsMu.Unlock()

	s.logsMu.Lock()
	s.logs = logs
	s.nextLogID = counterFloor(nextLog)
	s.logsMu.Unlock()

	s.logger.Info("store loaded",
		zap.Int("accounts", len(accounts)),
		zap.Int("items", len(items)),
		zap.Int("rewards", len(rewards)),
		zap.Int("mails", len(mails)),
		zap.Int("login_logs", len(logs)))
	return nil
}

// SaveAll rewrites every family. Used by the periodic checkpoint task.
func (s *Store) SaveAll() {
	s.accountsMu.Lock()
	s.saveAccountsLocked()
	s.accountsMu.Unlock()

	s.itemsMu.Lock()
	s.saveItemsLocked()
	s.itemsMu.Unlock()

	s.rewardsMu.Lock()
	s.saveRewardsLocked()
	s.rewardsMu.Unlock()

	s.mailsMu.Lock()
	s.saveMailsLocked()
	s.mailsMu.Unlock()

	s.logsMu.Lock()
	s.saveLogsLocked()
	s.logsMu.Unlock()
}

// Close releases the underlying driver.
func (s *Store) Close() error {
	return s.driver.Close()
}

func counterFloor(n int64) int64 {
	if n < 1 {
		return 1
	}
	return n
}

// ---- family save helpers (caller holds the family lock) ----

func (s *Store) saveAccountsLocked() {
	snapshot := make([]*model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		snapshot = append(snapshot, &cp)
	}
	if err := s.driver.SaveAccounts(snapshot, s.nextAccountID); err != nil {
		s.logger.Error("save accounts failed", zap.Error(err))
	}
}

func (s *Store) saveItemsLocked() {
	snapshot := make([]*model.Item, 0, len(s.items))
	for _, it := range s.items {
		cp := *it
		snapshot = append(snapshot, &cp)
	}
	if err := s.driver.SaveItems(snapshot, s.nextItemID); err != nil {
		s.logger.Error("save items failed", zap.Error(err))
	}
}

func (s *Store) saveRewardsLocked() {
	snapshot := make([]*model.RewardGrant, 0, len(s.rewards))
	for _, r := range s.rewards {
		cp := *r
		snapshot = append(snapshot, &cp)
	}
	if err := s.driver.SaveRewards(snapshot, s.nextRewardID); err != nil {
		s.logger.Error("save rewards failed", zap.Error(err))
	}
}

func (s *Store) saveMailsLocked() {
	snapshot := make([]*model.Mail, 0, len(s.mails))
	for _, m := range s.mails {
		cp := *m
		snapshot = append(snapshot, &cp)
	}
	if err := s.driver.SaveMails(snapshot, s.nextMailID); err != nil {
		s.logger.Error("save mails failed", zap.Error(err))
	}
}

func (s *Store) saveLogsLocked() {
	snapshot := make([]*model.LoginLog, 0, len(s.logs))
	for _, l := range s.logs {
		cp := *l
		snapshot = append(snapshot, &cp)
	}
	if err := s.driver.SaveLoginLogs(snapshot, s.nextLogID); err != nil {
		s.logger.Error("save login logs failed", zap.Error(err))
	}
}
