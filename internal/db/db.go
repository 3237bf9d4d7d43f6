package db

import (
	"context"
	"fmt"
	"time"

	"github.com/MyelinBots/vitals-go/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm handle shared by every repository. Inside a transaction
// the wrapped handle is the transaction itself.
type DB struct {
	DB *gorm.DB
}

func New(gdb *gorm.DB) *DB {
	return &DB{DB: gdb}
}

// GormConfig stamps created_at/updated_at in UTC, matching consumed_at, since
// the columns are TIMESTAMP without a zone.
func GormConfig(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         l,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Open connects to postgres and configures the pool.
func Open(cfg config.DBConfig) (*DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), GormConfig(logger.Default.LogMode(logger.Warn)))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &DB{DB: gdb}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn against a DB bound to a single transaction.
func (d *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{DB: tx})
	})
}
