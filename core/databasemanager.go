package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staffhub.io/staffhub/model"
)

var (
	ErrDuplicate = errors.New("record already exists")
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	}
	return LogLevelWarn
}

func (l LogLevel) gorm() logger.LogLevel {
	switch l {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	case LogLevelSilent:
		return logger.Silent
	}
	return logger.Info
}

type Options struct {
	Driver         string
	DSN            string
	MaxConnections int
	LogLevel       LogLevel
}

type DatabaseManager struct {
	db    *gorm.DB
	SqlDB *sql.DB
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// New opens the pool and verifies it with a ping.
func New(opts Options) (*DatabaseManager, error) {
	d, err := dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel.gorm()),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	maxConnection := opts.MaxConnections
	if maxConnection <= 0 {
		maxConnection = 10
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{db: db, SqlDB: sqlDB}, nil
}

func (dm *DatabaseManager) GetDB(ctx context.Context) *gorm.DB {
	return dm.db.WithContext(ctx)
}

func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.GetDB(ctx))
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func (dm *DatabaseManager) Ping(ctx context.Context) error {
	if dm.SqlDB == nil {
		return errors.New("database is not open")
	}
	return dm.SqlDB.PingContext(ctx)
}

func (dm *DatabaseManager) Migrate(ctx context.Context) error {
	if err := dm.Exec(ctx, func(db *gorm.DB) error { return db.AutoMigrate(model.Tables()...) }); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close closes the global pool
func (dm *DatabaseManager) Close() error {
	if dm.SqlDB == nil {
		return nil
	}
	return dm.SqlDB.Close()
}
