package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // PostgreSQL driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver
)

// ErrDirtySchema is returned when a previous migration stopped half way and
// the scored_transactions schema needs manual repair
var ErrDirtySchema = errors.New("scored_transactions schema is dirty")

// MigrationSourceURL turns a migrations directory into a migrate source URL.
// Paths that already carry a scheme are returned unchanged.
func MigrationSourceURL(migrationsPath string) string {
	if strings.Contains(migrationsPath, "://") {
		return migrationsPath
	}
	return "file://" + migrationsPath
}

// RunMigrations brings the result sink schema up to date and reports the
// version it ended on. Zero means the source holds no migrations.
func RunMigrations(databaseURL, migrationsPath string) (uint, error) {
	switch {
	case migrationsPath == "":
		return 0, errors.New("migrations path cannot be empty")
	case databaseURL == "":
		return 0, errors.New("database URL cannot be empty")
	}

	m, err := migrate.New(MigrationSourceURL(migrationsPath), databaseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return schemaVersion(m)
}

type versioner interface {
	Version() (uint, bool, error)
}

func schemaVersion(m versioner) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	return version, nil
}
