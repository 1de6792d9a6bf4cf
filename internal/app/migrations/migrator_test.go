package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("/tmp/migrations/002_add_indexes_again.sql"))
	assert.Equal(t, "seed.sql", Version("seed.sql"))
}

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md", "010_c.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_a.sql"),
		filepath.Join(dir, "002_b.sql"),
		filepath.Join(dir, "010_c.sql"),
	}, files)
}

func TestMigrationFiles_MissingDirectory(t *testing.T) {
	_, err := MigrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestShippedMigrationsExist(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001", Version(files[0]))
}

func TestInitMigration_GPAKeepsFullPrecision(t *testing.T) {
	sql, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)

	assert.Regexp(t, `(?m)^\s*gpa\s+DOUBLE PRECISION\b`, string(sql))
	assert.NotContains(t, string(sql), "NUMERIC")
}
