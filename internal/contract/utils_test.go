package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/localcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorState(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tests := []struct {
		state    schema.EntryState
		expected string
	}{
		{schema.ValidEntry, "valid"},
		{schema.LegacyEntry, "legacy"},
		{schema.InvalidEntry, "invalid"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetColorState(tt.state))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetCacheDBFilePath(t *testing.T) {
	path := GetCacheDBFilePath()

	assert.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, ".localcache.db"))

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		maxWidth int
		expected string
	}{
		{"short key untouched", "user/1", 10, "user/1"},
		{"exact width untouched", "abcdef", 6, "abcdef"},
		{"keeps tail", "namespace/user/12345", 10, "...r/12345"},
		{"tiny width untouched", "namespace/user", 3, "namespace/user"},
		{"runes counted not bytes", "ключ/значение", 8, "...чение"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateKey(tt.key, tt.maxWidth)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
