package storage

import (
	"fmt"

	"github.com/mizunashi/gamevault/server/config"
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/storage/gormdb"
	"github.com/mizunashi/gamevault/server/storage/jsonfile"
	"github.com/mizunashi/gamevault/server/storage/memdb"
)

// Storage modes.
const (
	ModeJSONFile = "jsonfile"
	ModeSQLite   = "sqlite"
	ModeMySQL    = "mysql"
	ModeMemory   = "memory"
)

// Driver persists full-family snapshots. Every Save call rewrites the whole
// family durably before returning; the id counter is part of the snapshot so
// restarts never reuse ids.
type Driver interface {
	LoadAccounts() ([]*model.Account, int64, error)
	SaveAccounts(accounts []*model.Account, nextID int64) error

	LoadItems() ([]*model.Item, int64, error)
	SaveItems(items []*model.Item, nextID int64) error

	LoadRewards() ([]*model.RewardGrant, int64, error)
	SaveRewards(rewards []*model.RewardGrant, nextID int64) error

	LoadMails() ([]*model.Mail, int64, error)
	SaveMails(mails []*model.Mail, nextID int64) error

	LoadLoginLogs() ([]*model.LoginLog, int64, error)
	SaveLoginLogs(logs []*model.LoginLog, nextID int64) error

	Close() error
}

// OpenDriver returns a Driver for the configured storage mode.
func OpenDriver(cfg config.StorageConfig) (Driver, error) {
	switch cfg.Mode {
	case ModeJSONFile:
		return jsonfile.Open(cfg.DataDir)
	case ModeSQLite:
		return gormdb.OpenSQLite(cfg.SQLitePath)
	case ModeMySQL:
		return gormdb.OpenMySQL(cfg.MySQLDSN, cfg.MySQLMaxOpen, cfg.MySQLMaxIdle, cfg.MySQLMaxLife)
	case ModeMemory:
		return memdb.Open(), nil
	default:
		return nil, fmt.Errorf("storage: unknown mode %q", cfg.Mode)
	}
}
