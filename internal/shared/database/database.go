package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// pure Go SQLite driver, registered as "sqlite"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps both GORM and sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// NewDB creates a new database connection and exits the process on failure.
func NewDB(driver, connStr string) *DB {
	if connStr == "" {
		log.Fatal().Msg("❌ DATABASE_URL is empty")
	}

	db, err := Open(driver, connStr, logger.Warn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("❌ Failed to open database")
	}

	log.Info().Str("driver", driver).Msg("✅ Database connected (GORM)!")
	return db
}

// Open connects to postgres or sqlite and verifies the connection.
func Open(driver, connStr string, level logger.LogLevel) (*DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(connStr)
	case DriverSQLite:
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: connStr})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if driver == DriverSQLite {
		// a single writer avoids "database is locked" on shared in-memory databases
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, GORM: gormDB}, nil
}

func (db *DB) Close() error {
	log.Info().Msg("🔌 Closing database connection...")
	return db.DB.Close()
}
