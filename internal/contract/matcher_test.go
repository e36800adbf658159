package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		pattern string
		want    bool
	}{
		{"empty pattern", "user/1", "", false},
		{"prefix match", "session/abc", "session/", true},
		{"prefix miss", "sessions", "session/", false},
		{"suffix match", "report.json", ".json", true},
		{"glob full key", "tmp-42", "tmp-*", true},
		{"glob last segment", "exports/a.json", "*.json", true},
		{"glob double star", "a/b/c", "**", true},
		{"glob miss", "user/1", "tmp-?", false},
		{"substring match", "cache/generated/1", "generated", true},
		{"substring miss", "user/1", "admin", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPattern(tt.key, tt.pattern))
		})
	}
}

func TestMatchers(t *testing.T) {
	assert.True(t, Exact("a")("a"))
	assert.False(t, Exact("a")("ab"))
	assert.True(t, Prefix("user/")("user/1"))
	assert.False(t, Prefix("user/")("users"))
	assert.True(t, Pattern(" *.tmp ")("x.tmp"))
	assert.True(t, MatchFunc(func(k string) bool { return len(k) > 3 })("long"))
}

func TestAnyMatch(t *testing.T) {
	matchers := []KeyMatcher{nil, Exact("a"), Prefix("keep/")}
	assert.True(t, AnyMatch("a", matchers))
	assert.True(t, AnyMatch("keep/x", matchers))
	assert.False(t, AnyMatch("b", matchers))
	assert.False(t, AnyMatch("a", nil))
}

func TestParsePreserved(t *testing.T) {
	matchers := ParsePreserved([]string{"a, b", "", "sess/", "tmp-*", " , "})
	assert.Len(t, matchers, 4)

	tests := []struct {
		key  string
		want bool
	}{
		{"a", true},
		{"b", true},
		{"ab", false},
		{"sess/1", true},
		{"sess", false},
		{"tmp-9", true},
		{"other", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, AnyMatch(tt.key, matchers))
		})
	}
}
