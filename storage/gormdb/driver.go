// Package gormdb persists family snapshots into a SQL database through
// GORM. A save rewrites the whole family table in one transaction, keeping
// the same full-rewrite contract as the jsonfile driver; the id counters
// live in the counters table.
package gormdb

import (
	"errors"
	"time"

	"github.com/mizunashi/gamevault/server/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver persists snapshots via a *gorm.DB.
type Driver struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) a SQLite-backed driver.
func OpenSQLite(path string) (*Driver, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return newDriver(db)
}

// OpenMySQL opens (and migrates) a MySQL-backed driver.
func OpenMySQL(dsn string, maxOpen, maxIdle int, maxLife time.Duration) (*Driver, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if maxLife > 0 {
		sqlDB.SetConnMaxLifetime(maxLife)
	}
	return newDriver(db)
}

func newDriver(db *gorm.DB) (*Driver, error) {
	if err := model.AutoMigrate(db); err != nil {
		return nil, err
	}
	return &Driver{db: db}, nil
}

func loadFamily[T any](db *gorm.DB, family string, out *[]*T) (int64, error) {
	if err := db.Find(out).Error; err != nil {
		return 0, err
	}
	var counter model.Counter
	err := db.Where("family = ?", family).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.NextID, nil
}

func saveFamily[T any](db *gorm.DB, family string, records []*T, nextID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(new(T)).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(records, 200).Error; err != nil {
				return err
			}
		}
		return tx.Save(&model.Counter{Family: family, NextID: nextID}).Error
	})
}

func (d *Driver) LoadAccounts() ([]*model.Account, int64, error) {
	var records []*model.Account
	next, err := loadFamily(d.db, "accounts", &records)
	return records, next, err
}

func (d *Driver) SaveAccounts(accounts []*model.Account, nextID int64) error {
	return saveFamily(d.db, "accounts", accounts, nextID)
}

func (d *Driver) LoadItems() ([]*model.Item, int64, error) {
	var records []*model.Item
	next, err := loadFamily(d.db, "items", &records)
	return records, next, err
}

func (d *Driver) SaveItems(items []*model.Item, nextID int64) error {
	return saveFamily(d.db, "items", items, nextID)
}

func (d *Driver) LoadRewards() ([]*model.RewardGrant, int64, error) {
	var records []*model.RewardGrant
	next, err := loadFamily(d.db, "rewards", &records)
	return records, next, err
}

func (d *Driver) SaveRewards(rewards []*model.RewardGrant, nextID int64) error {
	return saveFamily(d.db, "rewards", rewards, nextID)
}

func (d *Driver) LoadMails() ([]*model.Mail, int64, error) {
	var records []*model.Mail
	next, err := loadFamily(d.db, "mails", &records)
	return records, next, err
}

func (d *Driver) SaveMails(mails []*model.Mail, nextID int64) error {
	return saveFamily(d.db, "mails", mails, nextID)
}

func (d *Driver) LoadLoginLogs() ([]*model.LoginLog, int64, error) {
	var records []*model.LoginLog
	next, err := loadFamily(d.db, "login_logs", &records)
	return records, next, err
}

func (d *Driver) SaveLoginLogs(logs []*model.LoginLog, nextID int64) error {
	return saveFamily(d.db, "login_logs", logs, nextID)
}

func (d *Driver) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
