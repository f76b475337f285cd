package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"productlist/internal/model"

	"github.com/rs/zerolog"
)

// Creator persists one product. service.ProductService satisfies it.
type Creator interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
}

// Result summarises an import run.
type Result struct {
	Files   int
	Created int
	// Skipped counts malformed lines and records rejected by validation.
	Skipped int
}

// Importer loads seed files and creates their products.
type Importer struct {
	loader  Loader
	creator Creator
	logger  zerolog.Logger
}

// NewImporter creates a new seed importer.
func NewImporter(loader Loader, creator Creator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		creator: creator,
		logger:  logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import loads every path concurrently, then creates the records file by file
// in the order given. A file that cannot be loaded or a store failure aborts
// the run; records failing validation are skipped.
func (i *Importer) Import(ctx context.Context, paths []string) (*Result, error) {
	batches, err := i.loadAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: len(batches)}

	for _, batch := range batches {
		result.Skipped += batch.Malformed

		for n := range batch.Records {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			_, err := i.creator.Create(ctx, &batch.Records[n])
			if err != nil {
				if errors.Is(err, model.ErrValidationFailed) {
					i.logger.Warn().
						Err(err).
						Str("source", batch.Source).
						Int("record", n+1).
						Msg("skipping invalid seed record")
					result.Skipped++
					continue
				}
				return result, fmt.Errorf("failed to import %s record %d: %w", batch.Source, n+1, err)
			}
			result.Created++
		}
	}

	i.logger.Info().
		Int("files", result.Files).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("seed import finished")

	return result, nil
}

func (i *Importer) loadAll(ctx context.Context, paths []string) ([]*Batch, error) {
	type loadResult struct {
		index int
		batch *Batch
		err   error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for index, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			batch, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, batch: batch, err: err}
		}(index, path)
	}

	// Wait for all loads to complete
	wg.Wait()
	close(resultChan)

	// Collect results in order
	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	batches := make([]*Batch, 0, len(paths))
	for index, result := range results {
		if result.err != nil {
			i.logger.Error().Err(result.err).Str("file", paths[index]).Msg("failed to load seed file")
			return nil, fmt.Errorf("failed to load seed file %s: %w", paths[index], result.err)
		}
		batches = append(batches, result.batch)
	}

	return batches, nil
}
