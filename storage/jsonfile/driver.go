// Package jsonfile persists each record family as one JSON file that is
// fully rewritten on every save. This matches the store's whole-family save
// contract: there is no journal, and a crash mid-write can corrupt the
// latest save of the affected family.
package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/mizunashi/gamevault/server/model"
)

// Driver stores family snapshots under a data directory.
type Driver struct {
	dir string
}

// Open creates the data directory if needed and returns the driver.
func Open(dir string) (*Driver, error) {
	if dir == "" {
		return nil, errors.New("jsonfile: data_dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Driver{dir: dir}, nil
}

// envelope wraps a family's records with its id counter so restarts never
// reuse ids.
type envelope[T any] struct {
	NextID  int64 `json:"next_id"`
	Records []T   `json:"records"`
}

func load[T any](path string) ([]T, int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 1, nil
		}
		return nil, 0, err
	}
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, err
	}
	return env.Records, env.NextID, nil
}

func save[T any](path string, records []T, nextID int64) error {
	raw, err := json.MarshalIndent(envelope[T]{NextID: nextID, Records: records}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (d *Driver) path(name string) string {
	return filepath.Join(d.dir, name)
}

func (d *Driver) LoadAccounts() ([]*model.Account, int64, error) {
	return load[*model.Account](d.path("accounts.json"))
}

func (d *Driver) SaveAccounts(accounts []*model.Account, nextID int64) error {
	return save(d.path("accounts.json"), accounts, nextID)
}

func (d *Driver) LoadItems() ([]*model.Item, int64, error) {
	return load[*model.Item](d.path("items.json"))
}

func (d *Driver) SaveItems(items []*model.Item, nextID int64) error {
	return save(d.path("items.json"), items, nextID)
}

func (d *Driver) LoadRewards() ([]*model.RewardGrant, int64, error) {
	return load[*model.RewardGrant](d.path("rewards.json"))
}

func (d *Driver) SaveRewards(rewards []*model.RewardGrant, nextID int64) error {
	return save(d.path("rewards.json"), rewards, nextID)
}

func (d *Driver) LoadMails() ([]*model.Mail, int64, error) {
	return load[*model.Mail](d.path("mails.json"))
}

func (d *Driver) SaveMails(mails []*model.Mail, nextID int64) error {
	return save(d.path("mails.json"), mails, nextID)
}

func (d *Driver) LoadLoginLogs() ([]*model.LoginLog, int64, error) {
	return load[*model.LoginLog](d.path("login_logs.json"))
}

func (d *Driver) SaveLoginLogs(logs []*model.LoginLog, nextID int64) error {
	return save(d.path("login_logs.json"), logs, nextID)
}

func (d *Driver) Close() error { return nil }
