package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// DefaultMigrationsTable is where golang-migrate records the schema version.
const DefaultMigrationsTable = "schema_migrations"

// Migrator applies the SQL files under a migrations directory to Postgres.
type Migrator struct {
	migrate *migrate.Migrate
	path    string
	logger  *zap.Logger
}

// Option customizes a Migrator.
type Option func(*options)

type options struct {
	table   string
	verbose bool
}

// WithMigrationsTable overrides the version table name.
func WithMigrationsTable(table string) Option {
	return func(o *options) { o.table = table }
}

// WithVerbose forwards golang-migrate's per-file progress to the logger.
func WithVerbose() Option {
	return func(o *options) { o.verbose = true }
}

// New builds a Migrator on an open *sql.DB. The caller keeps ownership of db
// until Close.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger, opts ...Option) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{table: DefaultMigrationsTable}
	for _, opt := range opts {
		opt(&o)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: o.table})
	if err != nil {
		return nil, fmt.Errorf("create postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL(migrationsPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: logger.Named("migrate"), verbose: o.verbose}

	return &Migrator{migrate: m, path: migrationsPath, logger: logger}, nil
}

func sourceURL(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}

func noChange(err error) bool {
	return errors.Is(err, migrate.ErrNoChange)
}

// Up applies every pending migration.
func (m *Migrator) Up() error {
	m.logger.Info("applying migrations", zap.String("path", m.path))
	if err := m.migrate.Up(); err != nil {
		if noChange(err) {
			m.logger.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	return m.logVersion("migrations applied")
}

// Down rolls every migration back.
func (m *Migrator) Down() error {
	m.logger.Warn("rolling back all migrations")
	if err := m.migrate.Down(); err != nil {
		if noChange(err) {
			m.logger.Info("nothing to roll back")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	m.logger.Info("all migrations rolled back")
	return nil
}

// Steps moves n migrations forward, or back when n is negative.
func (m *Migrator) Steps(n int) error {
	if n == 0 {
		return nil
	}
	if err := m.migrate.Steps(n); err != nil {
		if noChange(err) {
			return nil
		}
		return fmt.Errorf("migrate %d steps: %w", n, err)
	}
	return m.logVersion("migration steps applied")
}

// GoTo migrates up or down to version.
func (m *Migrator) GoTo(version uint) error {
	if err := m.migrate.Migrate(version); err != nil {
		if noChange(err) {
			m.logger.Info("already at target version", zap.Uint("version", version))
			return nil
		}
		return fmt.Errorf("migrate to %d: %w", version, err)
	}
	return m.logVersion("migrated to target version")
}

// Version reports the applied version. A fresh database reports 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied and clears the dirty flag without
// running any SQL.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Status compares the applied version with the files on disk.
func (m *Migrator) Status() (*Status, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return nil, err
	}
	files, err := ListMigrations(m.path)
	if err != nil {
		return nil, err
	}
	return newStatus(version, dirty, files), nil
}

// Close releases the source and the database driver.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Status summarizes which migrations are applied.
type Status struct {
	Version uint
	Dirty   bool
	Applied []string
	Pending []string
}

func newStatus(version uint, dirty bool, files []string) *Status {
	s := &Status{Version: version, Dirty: dirty, Applied: []string{}, Pending: []string{}}
	for _, name := range files {
		v, err := ParseVersion(name)
		if err != nil {
			continue
		}
		if v <= version {
			s.Applied = append(s.Applied, name)
		} else {
			s.Pending = append(s.Pending, name)
		}
	}
	return s
}

// migrateLogger adapts zap to golang-migrate's Logger.
type migrateLogger struct {
	logger  *zap.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
