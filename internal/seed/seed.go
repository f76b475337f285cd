// Package seed bulk-loads catalogue products from JSON-lines files, stored
// locally or in S3 and optionally gzip-compressed. Every record is created
// through the product service so it passes the same field contract as an API
// request.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"productlist/internal/model"

	"github.com/rs/zerolog"
)

// Batch is the decoded content of one seed file.
type Batch struct {
	// Source names the file or object the batch was read from.
	Source string

	// Records holds the well-formed lines in file order.
	Records []model.CreateProductRequest

	// Malformed counts lines that were not valid JSON objects.
	Malformed int
}

// Loader defines the interface for loading seed files.
type Loader interface {
	// Load reads a seed file and returns its decoded records.
	Load(ctx context.Context, path string) (*Batch, error)
}

const maxLineBytes = 1024 * 1024

var gzipMagic = []byte{0x1f, 0x8b}

// decode reads JSON-lines records from r, transparently decompressing gzip input.
func decode(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*Batch, error) {
	br := bufio.NewReader(r)

	var in io.Reader = br
	if magic, err := br.Peek(len(gzipMagic)); err == nil && string(magic) == string(gzipMagic) {
		gzipReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
		}
		defer gzipReader.Close()
		in = gzipReader
	}

	batch := &Batch{Source: source}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("seed loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req model.CreateProductRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			logger.Warn().Err(err).Str("source", source).Int("line", lineNo).Msg("skipping malformed seed line")
			batch.Malformed++
			continue
		}
		batch.Records = append(batch.Records, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", source, err)
	}

	return batch, nil
}
