package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"imobcrm/internal/domain/activity"
	"imobcrm/internal/domain/lead"
	"imobcrm/internal/domain/visit"
)

// PoolOptions tunes the PostgreSQL connection pool.
type PoolOptions struct {
	MaxOpenConns int
	MaxIdleConns int
}

func Connect(dsn string) (*gorm.DB, error) {
	return ConnectWithPool(dsn, PoolOptions{})
}

// ConnectWithPool opens PostgreSQL for postgres:// DSNs and SQLite otherwise.
// SQLite is pinned to a single connection so transactions serialise and
// in-memory databases are shared by every caller.
func ConnectWithPool(dsn string, pool PoolOptions) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if isPostgres(dsn) {
		logrus.Info("Connecting to PostgreSQL...")
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get DB instance: %w", err)
		}
		if pool.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
		}
		if pool.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
		return db, nil
	}

	logrus.WithField("dsn", dsn).Info("Using SQLite for local development")

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		gormCfg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates the lead, activity and visit tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&lead.Lead{}, &activity.Activity{}, &visit.Visit{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	n, err := lead.NewRepository(db).BackfillSearchKeys(context.Background())
	if err != nil {
		return fmt.Errorf("search key backfill failed: %w", err)
	}
	if n > 0 {
		logrus.WithField("leads", n).Info("search keys backfilled")
	}
	return nil
}

// Ping checks that the underlying connection is alive.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
