package journal

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const busyTimeoutMS = 5000

func openDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrJournal, "failed to create journal directory for %s", path)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrJournal, "failed to open journal")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
	}
	for _, pragma := range pragmas {
		if err := retryBusy(func() error {
			_, err := db.ExecContext(context.Background(), pragma)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, errors.ErrJournal, "failed to set %s", pragma)
		}
	}

	if err := retryBusy(func() error { return migrate(db) }); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrJournal, "failed to migrate journal")
	}
	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:"
	}
	return "file:" + path + "?mode=rwc"
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetVerbose(false)
	goose.SetLogger(goose.NopLogger())

	// goose names the dialect sqlite3 whatever the driver is called
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// retryBusy retries op while SQLite reports the database as locked.
// Other errors stop the retry at once.
func retryBusy(op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = busyTimeoutMS * time.Millisecond
	b.RandomizationFactor = 0.1

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isBusy(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
