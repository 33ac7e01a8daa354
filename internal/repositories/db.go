// Package repositories provides the data access layer for the ledger.
// It handles all database operations and data persistence logic.
package repositories

import (
	"fmt"
	"time"

	"custodia/internal/config"
	"custodia/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the postgres connection, configures the pool and the GORM
// logger, and migrates the ledger schema.
func InitDB(cfg config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := open(cfg.DSN(), log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("postgres connected & migrations applied",
		zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db, nil
}

// open connects with the settings every caller relies on. TranslateError
// lets repositories match gorm.ErrDuplicatedKey.
func open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger to ignore "record not found" errors
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn, // Only log warnings and errors
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the ledger tables. Order matters for the
// foreign keys: admin wallets, then client wallets, then transactions.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.AdminWallet{},
		&models.ClientWallet{},
		&models.Transaction{},
	); err != nil {
		return fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	return nil
}

// CloseDB closes the underlying sql.DB.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
