package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/supplynet/backend/internal/infrastructure/config"
	"github.com/supplynet/backend/internal/infrastructure/logger"
	"github.com/supplynet/backend/internal/infrastructure/migration"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		migrationsPath string
		logLevel       string
		verbose        bool
	)
	flag.StringVar(&migrationsPath, "path", "", "migrations directory (default: database.migrations_path)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.BoolVar(&verbose, "verbose", false, "log every applied file")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return errors.New("no command given")
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if migrationsPath == "" {
		migrationsPath = cfg.Database.MigrationsPath
	}
	if migrationsPath, err = filepath.Abs(migrationsPath); err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}
	log.Debug("migration cli", zap.String("command", command), zap.String("path", migrationsPath))

	// Commands that only touch the filesystem.
	switch command {
	case "create":
		if len(args) < 2 {
			return errors.New("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], description)
		if err != nil {
			return err
		}
		log.Info("migration created", zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return nil
	case "list":
		names, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var opts []migration.Option
	if verbose {
		opts = append(opts, migration.WithVerbose())
	}
	m, err := migration.New(db, migrationsPath, log, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("close migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		return m.Up()
	case "down":
		if !hasFlag(args[1:], "-confirm") {
			return errors.New("down removes every table; rerun as: migrate down -confirm")
		}
		return m.Down()
	case "step":
		n, err := intArg(args, "usage: migrate step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(args, "usage: migrate goto <version>")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative: %d", n)
		}
		return m.GoTo(uint(n))
	case "force":
		n, err := intArg(args, "usage: migrate force <version>")
		if err != nil {
			return err
		}
		return m.Force(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%t)\n", version, dirty)
		return nil
	case "status":
		status, err := m.Status()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%t)\n", status.Version, status.Dirty)
		for _, name := range status.Applied {
			fmt.Println("  applied ", name)
		}
		for _, name := range status.Pending {
			fmt.Println("  pending ", name)
		}
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, errors.New(usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", usage, err)
	}
	return n, nil
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || a == "-"+name {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Fprint(flag.CommandLine.Output(), `Supplynet schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down -confirm         roll back every migration
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to version
  force <version>       mark version applied and clear the dirty flag
  version               print the applied version
  status                list applied and pending migrations
  create <name> [desc]  write an empty up/down pair
  list                  list migrations on disk

Flags:
  -path string          migrations directory
  -log-level string     debug, info, warn, error (default "info")
  -verbose              log every applied file

Connection settings come from config.toml or SUPPLYNET_DATABASE_* variables.
`)
}
