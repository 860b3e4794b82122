// Package loginlog records login attempts asynchronously in batches so the
// auth path never waits on a family save.
package loginlog

import (
	"sync"
	"time"

	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
)

// Entry holds one login attempt to be recorded.
type Entry struct {
	AccountID  int64
	IPAddress  string
	DeviceInfo string
	Success    bool
	FailReason string
}

// Service batches login-log writes into the store.
type Service struct {
	store   *storage.Store
	ch      chan *model.LoginLog
	flushCh chan chan struct{}
	stopCh  chan struct{}
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// New creates a login-log Service and starts its background worker.
func New(store *storage.Store, logger *zap.Logger) *Service {
	svc := &Service{
		store:   store,
		ch:      make(chan *model.LoginLog, 1024),
		flushCh: make(chan chan struct{}),
		stopCh:  make(chan struct{}),
		logger:  logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues one attempt for an async batched write.
func (svc *Service) Record(entry Entry) {
	record := &model.LoginLog{
		AccountID:  entry.AccountID,
		LoginTime:  time.Now().UTC(),
		IPAddress:  entry.IPAddress,
		DeviceInfo: entry.DeviceInfo,
		Success:    entry.Success,
		FailReason: entry.FailReason,
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("login log channel full, dropping entry",
			zap.Int64("account_id", entry.AccountID))
	}
}

// Recent returns the account's most recent attempts, newest first.
func (svc *Service) Recent(accountID int64, limit int) []*model.LoginLog {
	return svc.store.LoginLogsByAccount(accountID, limit)
}

// Flush blocks until every entry queued before the call is written.
func (svc *Service) Flush() {
	done := make(chan struct{})
	select {
	case svc.flushCh <- done:
		<-done
	case <-svc.stopCh:
	}
}

// Stop flushes remaining entries and shuts down the worker. It blocks until
// the worker goroutine has finished.
func (svc *Service) Stop() {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	batch := make([]*model.LoginLog, 0, 100)

	write := func() {
		if len(batch) == 0 {
			return
		}
		svc.store.AppendLoginLogs(batch)
		batch = batch[:0]
	}

	drain := func() {
		for {
			select {
			case entry := <-svc.ch:
				batch = append(batch, entry)
			default:
				write()
				return
			}
		}
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= 100 {
				write()
			}
		case <-ticker.C:
			write()
		case done := <-svc.flushCh:
			drain()
			close(done)
		case <-svc.stopCh:
			drain()
			return
		}
	}
}
