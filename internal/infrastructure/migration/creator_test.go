package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add networks table", "add_networks_table"},
		{"Add-Contact-Index", "add_contact_index"},
		{"ADD_PRODUCTS", "add_products"},
		{"drop__arrears__default", "drop_arrears_default"},
		{"Level 2 check", "level_2_check"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	mf, err := createMigrationAt(dir, "add contact country index", "Speeds up the country filter", now)
	require.NoError(t, err)

	assert.Equal(t, "20260314092653", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260314092653_add_contact_country_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260314092653_add_contact_country_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add contact country index")
	assert.Contains(t, string(up), "-- Speeds up the country filter")
	assert.Contains(t, string(up), "BEGIN;")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigration_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	_, err := createMigrationAt(dir, "same", "", now)
	require.NoError(t, err)
	_, err = createMigrationAt(dir, "same", "", now)
	assert.Error(t, err)
}

func TestCreateMigration_EmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- test"), 0o644))
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"20260105090200_create_products.up.sql",
		"20260105090200_create_products.down.sql",
		"20260105090000_create_contacts.up.sql",
		"20260105090000_create_contacts.down.sql",
		"20260105090100_create_networks.up.sql",
		"20260105090100_create_networks.down.sql",
		"README.md",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.up.sql"), 0o755))

	got, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260105090000_create_contacts",
		"20260105090100_create_networks",
		"20260105090200_create_products",
	}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMigrations_RepositoryMigrations(t *testing.T) {
	got, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "20260105090000_create_contacts", got[0])
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("20260105090100_create_networks")
	require.NoError(t, err)
	assert.Equal(t, uint(20260105090100), v)

	_, err = ParseVersion("create_networks")
	assert.Error(t, err)
}

func TestNewStatus(t *testing.T) {
	files := []string{
		"20260105090000_create_contacts",
		"20260105090100_create_networks",
		"20260105090200_create_products",
		"notes",
	}

	s := newStatus(20260105090100, false, files)
	assert.Equal(t, []string{"20260105090000_create_contacts", "20260105090100_create_networks"}, s.Applied)
	assert.Equal(t, []string{"20260105090200_create_products"}, s.Pending)

	fresh := newStatus(0, false, files)
	assert.Empty(t, fresh.Applied)
	assert.Len(t, fresh.Pending, 3)
}

func TestSourceURL(t *testing.T) {
	assert.Equal(t, "file:///srv/migrations", sourceURL("/srv/migrations"))
	assert.Equal(t, "file://migrations", sourceURL("file://migrations"))
}
