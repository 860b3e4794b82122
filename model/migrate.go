package model

import "gorm.io/gorm"

// Counter persists one family's id counter for SQL-backed storage drivers.
type Counter struct {
	Family string `gorm:"primaryKey;size:32"`
	NextID int64
}

// allModels lists every model to be auto-migrated.
var allModels = []interface{}{
	&Account{},
	&Item{},
	&RewardGrant{},
	&Mail{},
	&LoginLog{},
	&Counter{},
}

// AutoMigrate creates or updates all tables in the given database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels...)
}
