package client

import (
	"fmt"
	"storefront-backend/internal/config"
	"storefront-backend/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the configured database and migrates the schema. Mysql gets
// pool limits (important for webhooks); sqlite is the dev/test path.
func InitDB(dbCfg *config.Database) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch dbCfg.Driver {
	case "mysql":
		db, err = gorm.Open(mysql.Open(dbCfg.URL), &gorm.Config{})
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dbCfg.URL), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbCfg.Driver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.BillingAddress{},
		&model.Payment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
