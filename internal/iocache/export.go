package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/localcache/internal/localcache"
	"github.com/huangsam/localcache/internal/parquet"
)

// ExecuteExport writes the inventory of the cache to a Parquet file.
func ExecuteExport(ctx context.Context, cache *localcache.LocalCache, outputFile string, w io.Writer) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := cache.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get cache status: %w", err)
	}
	if !status.Connected {
		return fmt.Errorf("%s store is not available", status.Backend)
	}

	entries, err := cache.Inspect(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect cache entries: %w", err)
	}
	if len(entries) == 0 {
		return errors.New("no cache entries found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total entries: %d (valid %d, legacy %d, invalid %d)\n",
		status.TotalEntries, status.ValidEntries, status.LegacyEntries, status.InvalidEntries)

	rows := parquet.ConvertEntryInfos(entries, time.Now())
	if err := parquet.WriteEntriesParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d entries to: %s\n", len(rows), outputFile)
	return nil
}
