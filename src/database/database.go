// src/database/database.go
package database

import (
	"database/sql"
	"errors"
	stdlog "log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/username/biaslens/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite database. WAL plus a busy timeout covers concurrent
// readers; a one-connection pool keeps writers from ever seeing SQLITE_BUSY.
func InitDB(databasePath string) {
	dsn := databasePath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		stdlog.Fatalf("failed to ping database: %v", err)
	}
	DB = db
	logger.L.Info("Database ready", "path", databasePath)
}

// RunMigrations applies every pending migration found under migrationsPath.
// A missing or broken migration set is fatal: the schema must match the code.
func RunMigrations(databasePath, migrationsPath string) {
	if DB == nil {
		stdlog.Fatal("database must be initialized before running migrations")
	}

	driver, err := sqlite.WithInstance(DB, &sqlite.Config{})
	if err != nil {
		stdlog.Fatalf("could not create sqlite migration driver: %v", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		stdlog.Fatalf("could not resolve migrations path %s: %v", migrationsPath, err)
	}
	sourceURL := "file://" + filepath.ToSlash(absPath)

	m, err := migrate.NewWithDatabaseInstance(sourceURL, databasePath, driver)
	if err != nil {
		stdlog.Fatalf("migration setup failed (source %s): %v", sourceURL, err)
	}

	switch err = m.Up(); {
	case err == nil:
		logger.L.Info("Database migrations applied", "source", sourceURL)
	case errors.Is(err, migrate.ErrNoChange):
		logger.L.Info("Database schema already up to date")
	default:
		stdlog.Fatalf("failed to apply migrations: %v", err)
	}
}
