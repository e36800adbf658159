package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/localcache/schema"
)

// Color variables for console output.
var (
	// ValidColor marks entries the cache can serve.
	ValidColor = color.New(color.FgGreen)
	// LegacyColor marks entries without a timestamp.
	LegacyColor = color.New(color.FgYellow)
	// InvalidColor marks unparseable entries.
	InvalidColor = color.New(color.FgRed, color.Bold)
	// RemovedColor highlights removal counts.
	RemovedColor = color.New(color.FgMagenta, color.Bold)
)

// GetColorState returns a colored entry state for console output (table).
func GetColorState(state schema.EntryState) string {
	text := string(state)
	switch state {
	case schema.ValidEntry:
		return ValidColor.Sprint(text)
	case schema.LegacyEntry:
		return LegacyColor.Sprint(text)
	default:
		return InvalidColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".localcache.db"
	}
	return filepath.Join(homeDir, ".localcache.db")
}

// TruncateKey shortens a key to maxWidth runes, keeping its tail.
// Keys are usually namespaced from left to right, so the tail is the
// more specific part.
func TruncateKey(key string, maxWidth int) string {
	runes := []rune(key)
	if maxWidth <= 3 || len(runes) <= maxWidth {
		return key
	}
	return "..." + string(runes[len(runes)-maxWidth+3:])
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
