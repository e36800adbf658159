package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// printEntries dispatches based on the output format configured.
func (ow *OutWriter) printEntries(entries []schema.EntryInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entriesForJSON(entries))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVEntries(w, entries)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := ow.printEntryTable(entries, cfg); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// entryJSON is the JSON shape of one inventory row.
type entryJSON struct {
	Rank int `json:"rank"`
	schema.EntryInfo
	UpdatedAt string `json:"updated_at,omitempty"`
}

func entriesForJSON(entries []schema.EntryInfo) []entryJSON {
	output := make([]entryJSON, len(entries))
	for i, e := range entries {
		output[i] = entryJSON{Rank: i + 1, EntryInfo: e}
		if e.State == schema.ValidEntry {
			output[i].UpdatedAt = e.Time().UTC().Format(timeLayout)
		}
	}
	return output
}

// writeCSVEntries writes the inventory to w, one row per key.
func writeCSVEntries(w io.Writer, entries []schema.EntryInfo) error {
	header := []string{"rank", "key", "state", "timestamp", "updated_at", "size_bytes"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, e := range entries {
			ts, updated := "", ""
			if e.State == schema.ValidEntry {
				ts = strconv.FormatInt(e.Timestamp, 10)
				updated = e.Time().UTC().Format(timeLayout)
			}
			row := []string{
				strconv.Itoa(i + 1),
				e.Key,
				string(e.State),
				ts,
				updated,
				strconv.Itoa(e.SizeBytes),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// printEntryTable prints the inventory using the tablewriter API.
func (ow *OutWriter) printEntryTable(entries []schema.EntryInfo, cfg *contract.Config) error {
	table := tablewriter.NewWriter(ow.out)
	table.Header([]string{"Rank", "Key", "State", "Updated", "Size"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	keyWidth := GetMaxTableKeyWidth(cfg)
	var data [][]string
	var totalSize uint64
	for i, e := range entries {
		state := string(e.State)
		if cfg.UseColors {
			state = contract.GetColorState(e.State)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateKey(e.Key, keyWidth),
			state,
			formatTime(e.Time()),
			humanize.Bytes(uint64(e.SizeBytes)),
		}
		data = append(data, row)
		totalSize += uint64(e.SizeBytes)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.out, "Showing %d entries (%s)\n", len(entries), humanize.Bytes(totalSize))
	return nil
}

// printValue writes a single payload. Text output is the indented payload itself.
func (ow *OutWriter) printValue(key string, value json.RawMessage, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Key   string          `json:"key"`
				Value json.RawMessage `json:"value"`
			}{Key: key, Value: value})
		}, "Wrote JSON")
	case schema.CSVOut:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
				return cw.Write([]string{key, string(value)})
			})
		}, "Wrote CSV")
	default:
		return ow.writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			var buf bytes.Buffer
			if err := json.Indent(&buf, value, "", "  "); err != nil {
				return fmt.Errorf("failed to format value: %w", err)
			}
			buf.WriteByte('\n')
			_, err := buf.WriteTo(w)
			return err
		}, "Wrote value")
	}
}
