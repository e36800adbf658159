// Package parquet provides data structures and functions for exporting cache
// inventories to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/localcache/schema"
	"github.com/parquet-go/parquet-go"
)

// Entry represents one stored key as seen by an inspection pass.
type Entry struct {
	// Key is the store key
	Key string `parquet:"key,snappy"`

	// State is valid, legacy or invalid
	State string `parquet:"state,snappy"`

	// Timestamp is the entry write time (nullable, only set for valid entries)
	Timestamp *time.Time `parquet:"timestamp,optional,snappy"`

	// SizeBytes is the size of the key plus the raw stored value
	SizeBytes int64 `parquet:"size_bytes,snappy"`

	// ExportedAt is when the export ran
	ExportedAt time.Time `parquet:"exported_at,snappy"`
}

// WriteEntriesParquet writes a slice of Entry structs to a Parquet file.
func WriteEntriesParquet(data []Entry, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the Entry struct tags
	writer := parquet.NewGenericWriter[Entry](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertEntryInfos converts inspection results to Entry rows stamped with exportedAt.
func ConvertEntryInfos(infos []schema.EntryInfo, exportedAt time.Time) []Entry {
	result := make([]Entry, len(infos))
	for i, info := range infos {
		result[i] = Entry{
			Key:        info.Key,
			State:      string(info.State),
			SizeBytes:  int64(info.SizeBytes),
			ExportedAt: exportedAt,
		}
		if info.State == schema.ValidEntry {
			ts := info.Time()
			result[i].Timestamp = &ts
		}
	}
	return result
}
