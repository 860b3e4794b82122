// Package memdb is a no-op driver for tests: loads return empty families
// and saves discard the snapshot. The in-memory store stays authoritative.
package memdb

import "github.com/mizunashi/gamevault/server/model"

type Driver struct{}

// Open returns a fresh no-op driver.
func Open() *Driver { return &Driver{} }

func (*Driver) LoadAccounts() ([]*model.Account, int64, error) { return nil, 1, nil }

func (*Driver) SaveAccounts([]*model.Account, int64) error { return nil }

func (*Driver) LoadItems() ([]*model.Item, int64, error) { return nil, 1, nil }

func (*Driver) SaveItems([]*model.Item, int64) error { return nil }

func (*Driver) LoadRewards() ([]*model.RewardGrant, int64, error) { return nil, 1, nil }

func (*Driver) SaveRewards([]*model.RewardGrant, int64) error { return nil }

func (*Driver) LoadMails() ([]*model.Mail, int64, error) { return nil, 1, nil }

func (*Driver) SaveMails([]*model.Mail, int64) error { return nil }

func (*Driver) LoadLoginLogs() ([]*model.LoginLog, int64, error) { return nil, 1, nil }

func (*Driver) SaveLoginLogs([]*model.LoginLog, int64) error { return nil }

func (*Driver) Close() error { return nil }
