package storage

import (
	"time"

	"github.com/mizunashi/gamevault/server/model"
)

// maxLoginLogs bounds the login-log family; the oldest entries are evicted
// first when the bound is exceeded.
const maxLoginLogs = 1000

// AppendLoginLogs records a batch of attempts with a single family save.
// Ids are assigned here so concurrent batches stay monotonic.
func (s *Store) AppendLoginLogs(entries []*model.LoginLog) {
	if len(entries) == 0 {
		return
	}
	s.logsMu.Lock()
	defer s.logsMu.Unlock()

	for _, e := range entries {
		cp := *e
		cp.ID = s.nextLogID
		s.nextLogID++
		if cp.LoginTime.IsZero() {
			cp.LoginTime = time.Now().UTC()
		}
		s.logs = append(s.logs, &cp)
	}
	if len(s.logs) > maxLoginLogs {
		s.logs = s.logs[len(s.logs)-maxLoginLogs:]
	}
	s.saveLogsLocked()
}

// LoginLogsByAccount returns the account's most recent attempts, newest
// first, capped at limit.
func (s *Store) LoginLogsByAccount(accountID int64, limit int) []*model.LoginLog {
	s.logsMu.Lock()
	defer s.logsMu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	result := make([]*model.LoginLog, 0, limit)
	for i := len(s.logs) - 1; i >= 0 && len(result) < limit; i-- {
		if s.logs[i].AccountID == accountID {
			cp := *s.logs[i]
			result = append(result, &cp)
		}
	}
	return result
}
