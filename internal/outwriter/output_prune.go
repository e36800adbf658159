package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// printPrune dispatches based on the output format configured.
func (ow *OutWriter) printPrune(result schema.PruneResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				schema.PruneResult
				Removed    int `json:"removed"`
				MaxEntries int `json:"max_entries"`
			}{result, result.Removed(), cfg.MaxEntries})
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVPrune(w, result, cfg.MaxEntries)
		}, "Wrote CSV")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			writeTextPrune(w, result, cfg)
			return nil
		}, "Wrote prune summary")
	}
}

func writeTextPrune(w io.Writer, result schema.PruneResult, cfg *contract.Config) {
	if result.Skipped {
		_, _ = fmt.Fprintf(w, "Cache holds %d entries or fewer, nothing to prune\n", cfg.MaxEntries)
		return
	}
	removed := strconv.Itoa(result.Removed())
	if cfg.UseColors {
		removed = contract.RemovedColor.Sprint(removed)
	}
	_, _ = fmt.Fprintf(w, "Removed %s entries (invalid %d, legacy %d, evicted %d)\n",
		removed, result.Invalid, result.Legacy, result.Evicted)
	_, _ = fmt.Fprintf(w, "Scanned %d keys, preserved %d, retained %d of at most %d\n",
		result.Scanned, result.Preserved, result.Retained, cfg.MaxEntries)
}

func writeCSVPrune(w io.Writer, result schema.PruneResult, maxEntries int) error {
	header := []string{
		"skipped",
		"scanned",
		"preserved",
		"invalid",
		"legacy",
		"evicted",
		"retained",
		"removed",
		"max_entries",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			strconv.FormatBool(result.Skipped),
			strconv.Itoa(result.Scanned),
			strconv.Itoa(result.Preserved),
			strconv.Itoa(result.Invalid),
			strconv.Itoa(result.Legacy),
			strconv.Itoa(result.Evicted),
			strconv.Itoa(result.Retained),
			strconv.Itoa(result.Removed()),
			strconv.Itoa(maxEntries),
		})
	})
}
