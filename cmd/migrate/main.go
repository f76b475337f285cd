package main

import (
	"fmt"
	"os"

	"productlist/internal/config"
	"productlist/internal/database"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const (
	databaseURLFlag = "database-url"
	downFlag        = "down"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	databaseURL := flags.StringP(databaseURLFlag, "d", "", "pgx5:// database URL (defaults to the DB_* configuration)")
	down := flags.Bool(downFlag, false, "revert every applied migration instead of applying pending ones")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).With().Str("component", "migrate").Logger()

	url := *databaseURL
	if url == "" {
		if cfg.Store.Driver != config.DriverPostgres {
			return fmt.Errorf("--%s flag: required when the store driver is %s", databaseURLFlag, cfg.Store.Driver)
		}
		url = cfg.Database.MigrationURL()
	}

	return migrate(url, *down, logger)
}

func migrate(url string, down bool, logger zerolog.Logger) error {
	if down {
		logger.Warn().Msg("rolling back all migrations")
		return database.Rollback(url, logger)
	}
	return database.Migrate(url, logger)
}
