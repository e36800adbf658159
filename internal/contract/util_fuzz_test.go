package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzMatchesPattern fuzzes MatchesPattern with random keys and patterns.
func FuzzMatchesPattern(f *testing.F) {
	seeds := []struct {
		key     string
		pattern string
	}{
		{"main.json", "*.json"},
		{"session/abc", "session/"},
		{"report.min.js", ".min.js"},
		{"", ""},
		{"very/long/key/to/value", "**/temp/**"},
		{"bracket", "[a-"},
	}
	for _, seed := range seeds {
		f.Add(seed.key, seed.pattern)
	}

	f.Fuzz(func(t *testing.T, key, pattern string) {
		got := MatchesPattern(key, pattern)
		if pattern == "" && got {
			t.Errorf("empty pattern matched %q", key)
		}
		// Plain prefixes always match keys that start with them
		if strings.HasSuffix(pattern, "/") && !strings.ContainsAny(pattern, "*?[") &&
			strings.HasPrefix(key, pattern) && !got {
			t.Errorf("prefix %q did not match %q", pattern, key)
		}
	})
}

// FuzzTruncateKey checks that truncation never exceeds the width.
func FuzzTruncateKey(f *testing.F) {
	f.Add("namespace/user/12345", 10)
	f.Add("ключ/значение", 8)
	f.Add("", 0)

	f.Fuzz(func(t *testing.T, key string, width int) {
		if !utf8.ValidString(key) {
			t.Skip()
		}
		got := TruncateKey(key, width)
		if width > 3 && utf8.RuneCountInString(got) > width {
			t.Errorf("TruncateKey(%q, %d) = %q is too wide", key, width, got)
		}
	})
}
