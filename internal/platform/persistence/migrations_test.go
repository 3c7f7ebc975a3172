package persistence

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
)

func TestRunMigrations_InputValidation(t *testing.T) {
	t.Run("EmptyMigrationsPath", func(t *testing.T) {
		_, err := RunMigrations("postgres://test", "")
		assert.EqualError(t, err, "migrations path cannot be empty")
	})

	t.Run("EmptyDatabaseURL", func(t *testing.T) {
		_, err := RunMigrations("", "migrations/postgres")
		assert.EqualError(t, err, "database URL cannot be empty")
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		_, err := RunMigrations("postgres://localhost:1/none?sslmode=disable", "does/not/exist")
		assert.ErrorContains(t, err, "failed to create migrate instance")
	})
}

func TestMigrationSourceURL(t *testing.T) {
	assert.Equal(t, "file://migrations/postgres", MigrationSourceURL("migrations/postgres"))
	assert.Equal(t, "file:///abs/migrations", MigrationSourceURL("/abs/migrations"))
	assert.Equal(t, "file://./migrations", MigrationSourceURL("file://./migrations"))
}

type stubVersioner struct {
	version uint
	dirty   bool
	err     error
}

func (s stubVersioner) Version() (uint, bool, error) {
	return s.version, s.dirty, s.err
}

func TestSchemaVersion(t *testing.T) {
	tests := []struct {
		name     string
		stub     stubVersioner
		expected uint
		errIs    error
		errText  string
	}{
		{name: "clean", stub: stubVersioner{version: 1}, expected: 1},
		{name: "no migrations applied", stub: stubVersioner{err: migrate.ErrNilVersion}, expected: 0},
		{name: "dirty", stub: stubVersioner{version: 1, dirty: true}, expected: 1, errIs: ErrDirtySchema},
		{name: "driver error", stub: stubVersioner{err: errors.New("relation missing")}, errText: "failed to read schema version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := schemaVersion(tt.stub)
			assert.Equal(t, tt.expected, version)
			switch {
			case tt.errIs != nil:
				assert.ErrorIs(t, err, tt.errIs)
			case tt.errText != "":
				assert.ErrorContains(t, err, tt.errText)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
