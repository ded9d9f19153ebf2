package db

import (
	"fmt"
	"time"

	"credit-preapproval/internal/config"
	"credit-preapproval/internal/domain/application"
	"credit-preapproval/internal/domain/lender"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm opens the configured driver: MySQL in deployments, a sqlite file for
// local runs and the CLI.
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return OpenGormWithDialector(mysql.Open(cfg.MySQLDSN()))
	case config.DriverSQLite:
		return OpenGormWithDialector(sqlite.Open(cfg.SQLitePath))
	}
	return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
}

func OpenGormWithDialector(d gorm.Dialector) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(d, gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the lender catalog and application history tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&lender.Lender{}, &application.Application{})
}
