// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"
	"io"
	"os"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// OutWriter provides a unified interface for all output operations.
// It renders cache inventories, values and pass summaries in the configured format.
type OutWriter struct {
	out    io.Writer
	errOut io.Writer
}

// NewOutWriter creates a new instance of the output writer bound to stdout and stderr.
func NewOutWriter() *OutWriter {
	return NewOutWriterTo(os.Stdout, os.Stderr)
}

// NewOutWriterTo creates an output writer bound to the given streams.
func NewOutWriterTo(out, errOut io.Writer) *OutWriter {
	return &OutWriter{out: out, errOut: errOut}
}

// WriteEntries prints a cache inventory using the configured output format.
func (ow *OutWriter) WriteEntries(entries []schema.EntryInfo, cfg *contract.Config) error {
	return ow.printEntries(entries, cfg)
}

// WriteValue prints the payload stored under key.
func (ow *OutWriter) WriteValue(key string, value json.RawMessage, cfg *contract.Config) error {
	return ow.printValue(key, value, cfg)
}

// WriteStatus prints cache status information using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.CacheStatus, cfg *contract.Config) error {
	return ow.printStatus(status, cfg)
}

// WritePrune prints the summary of a prune pass using the configured output format.
func (ow *OutWriter) WritePrune(result schema.PruneResult, cfg *contract.Config) error {
	return ow.printPrune(result, cfg)
}
