package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectPostgres opens a gorm connection with retries and pool tuning,
// running AutoMigrate for the given models once connected.
func ConnectPostgres(dsn string, logger *zap.Logger, autoMigrateModels ...interface{}) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			sqlDB, poolErr := db.DB()
			if poolErr == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
			}

			logger.Info("Connected to PostgreSQL successfully")

			if len(autoMigrateModels) > 0 {
				if err := db.AutoMigrate(autoMigrateModels...); err != nil {
					return nil, fmt.Errorf("AutoMigrate failed: %w", err)
				}
			}
			return db, nil
		}

		logger.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i+1) * 2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
}

// ConnectPrivileged opens the elevated-role connection used by settlement
// to write balances and the ledger. A missing DSN is not an error: it
// returns (nil, nil) and the settlement fallback path takes over.
func ConnectPrivileged(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		logger.Warn("Privileged DSN not configured, settlement will use the client fallback path")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		// Treated like an absent credential rather than a fatal error so
		// checkout keeps working while settlement falls back.
		logger.Error("Privileged DB connection failed, settlement will use the client fallback path", zap.Error(err))
		return nil, nil
	}

	logger.Info("Connected privileged PostgreSQL role")
	return db, nil
}
