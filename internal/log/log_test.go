package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.ErrorLevel, ParseLevel(""))
	assert.Equal(t, log.ErrorLevel, ParseLevel("nonsense"))
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel(" warn "))
}

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)
	h.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithFields(log.Fields{"key": "a", "bytes": 3}).Warn("removing entry")

	assert.Equal(t, "2025-01-02 03:04:05 W removing entry bytes=3 key=a\n", buf.String())
}
