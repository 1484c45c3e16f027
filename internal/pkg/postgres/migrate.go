package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5 database driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies all pending migrations from the given filesystem.
// It is a no-op when the schema is already up to date.
func Migrate(databaseURL string, migrations fs.FS) error {
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	// migrate selects its database driver by URL scheme; route through pgx.
	url := strings.Replace(databaseURL, "postgres://", "pgx5://", 1)
	url = strings.Replace(url, "postgresql://", "pgx5://", 1)

	migrator, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("database schema up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
