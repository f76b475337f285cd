package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productlist/internal/config"
	"productlist/internal/repository"
	"productlist/internal/seed"
	"productlist/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const fileFlag = "file"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	files := flags.StringArrayP(fileFlag, "f", nil, "JSON-lines product file, optionally gzipped (repeatable)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(*files) == 0 {
		return errors.New("--" + fileFlag + " flag: required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	importer := seed.NewImporter(
		newLoader(ctx, cfg.S3, logger),
		service.NewProductService(store.Products, logger),
		logger,
	)

	result, err := importer.Import(ctx, *files)
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}

	fmt.Printf("imported %d products from %d files (%d skipped)\n", result.Created, result.Files, result.Skipped)

	return nil
}

// newLoader reads seed files from S3 when it is enabled, falling back to the
// local file system.
func newLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(logger)
	if !cfg.Enabled {
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, cfg.Enabled, logger)
}
