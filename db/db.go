package db

import (
	"fmt"

	"store-monitor/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dbPath string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	// Auto Migrate
	err = DB.AutoMigrate(
		&model.StoreStatus{},
		&model.StoreBusinessHours{},
		&model.StoreTimezone{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

func Close() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err == nil {
		sqlDB.Close()
	}
}
