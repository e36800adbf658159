// Package log configures apex/log for the localcache CLI.
package log

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the env variable holding the log level.
const EnvLevel = "LOCALCACHE_LOG"

// InitLogger sets up Apex with a custom handler writing to stderr and a log
// level from the LOCALCACHE_LOG env variable. Unknown levels fall back to error.
func InitLogger() {
	log.SetHandler(NewHandler(os.Stderr))
	log.SetLevel(ParseLevel(os.Getenv(EnvLevel)))
}

// ParseLevel returns the level named by s, or ErrorLevel when s is empty or unknown.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.ErrorLevel
	}
	return level
}

// CustomHandler formats log messages as one line per entry.
type CustomHandler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewHandler returns a CustomHandler writing to w.
func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{w: w, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := h.now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", timestamp, level, e.Message)
	for _, name := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
