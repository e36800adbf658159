package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// printStatus dispatches based on the output format configured.
func (ow *OutWriter) printStatus(status schema.CacheStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVStatus(w, status)
		}, "Wrote CSV")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			writeTextStatus(w, status)
			return nil
		}, "Wrote status")
	}
}

// writeTextStatus prints cache status information as plain lines.
func writeTextStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d (valid %d, legacy %d, invalid %d)\n",
		status.TotalEntries, status.ValidEntries, status.LegacyEntries, status.InvalidEntries)
	if status.ValidEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s (%s)\n", formatTime(status.LastEntryTime), humanize.Time(status.LastEntryTime))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s (%s)\n", formatTime(status.OldestEntryTime), humanize.Time(status.OldestEntryTime))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}

// writeCSVStatus writes the status as a single-row CSV.
func writeCSVStatus(w io.Writer, status schema.CacheStatus) error {
	header := []string{
		"backend",
		"connected",
		"total_entries",
		"valid_entries",
		"legacy_entries",
		"invalid_entries",
		"last_entry_time",
		"oldest_entry_time",
		"table_size_bytes",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			status.Backend,
			strconv.FormatBool(status.Connected),
			strconv.Itoa(status.TotalEntries),
			strconv.Itoa(status.ValidEntries),
			strconv.Itoa(status.LegacyEntries),
			strconv.Itoa(status.InvalidEntries),
			formatTime(status.LastEntryTime),
			formatTime(status.OldestEntryTime),
			strconv.FormatInt(status.TableSizeBytes, 10),
		})
	})
}
