package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the SQLite database file and returns the handle. Callers own
// the handle and pass it down to the stores; there is no package-level
// connection.
func Connect(path string) (*gorm.DB, error) {
	if path == "" {
		path = "harmony.db"
	}

	// Verbose logger to surface slow queries during local development.
	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond, // log queries > 100ms
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// _busy_timeout keeps concurrent handlers from failing fast on SQLITE_BUSY;
	// _foreign_keys enables the ON DELETE CASCADE constraints on rooms/images.
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: lg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// SQLite allows a single writer; one shared connection sidesteps
	// SQLITE_BUSY churn between concurrent handlers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
