package contract

import (
	"path/filepath"
	"strings"
)

// KeyMatcher reports whether a key should be preserved by a prune pass.
type KeyMatcher func(key string) bool

// Exact matches a single literal key.
func Exact(key string) KeyMatcher {
	return func(k string) bool { return k == key }
}

// Prefix matches every key starting with prefix.
func Prefix(prefix string) KeyMatcher {
	return func(k string) bool { return strings.HasPrefix(k, prefix) }
}

// MatchFunc adapts an arbitrary predicate.
func MatchFunc(fn func(key string) bool) KeyMatcher {
	return KeyMatcher(fn)
}

// Pattern matches keys the way exclude patterns work for paths.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix matches.
// Anything else matches as a substring.
func Pattern(pattern string) KeyMatcher {
	pattern = strings.TrimSpace(pattern)
	return func(k string) bool {
		return MatchesPattern(k, pattern)
	}
}

// MatchesPattern applies the Pattern rules to a single key.
func MatchesPattern(key, pattern string) bool {
	if pattern == "" {
		return false
	}

	if strings.ContainsAny(pattern, "*?[") {
		pat := strings.ReplaceAll(pattern, "**", "*")
		if ok, err := filepath.Match(pat, key); err == nil && ok {
			return true
		}
		// Also try the last path segment, so "*.json" catches "a/b.json"
		if ok, err := filepath.Match(pat, filepath.Base(key)); err == nil && ok {
			return true
		}
		return false
	}

	switch {
	case strings.HasSuffix(pattern, "/"):
		return strings.HasPrefix(key, pattern)
	case strings.HasPrefix(pattern, "."):
		return strings.HasSuffix(key, pattern)
	default:
		return strings.Contains(key, pattern)
	}
}

// AnyMatch returns true if any matcher accepts key.
func AnyMatch(key string, matchers []KeyMatcher) bool {
	for _, m := range matchers {
		if m != nil && m(key) {
			return true
		}
	}
	return false
}

// ParsePreserved turns a list of CLI values into matchers. Values containing
// glob characters become patterns, values ending with '/' become prefixes,
// everything else is an exact key.
func ParsePreserved(values []string) []KeyMatcher {
	matchers := make([]KeyMatcher, 0, len(values))
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			p := strings.TrimSpace(part)
			switch {
			case p == "":
				continue
			case strings.ContainsAny(p, "*?["):
				matchers = append(matchers, Pattern(p))
			case strings.HasSuffix(p, "/"):
				matchers = append(matchers, Prefix(p))
			default:
				matchers = append(matchers, Exact(p))
			}
		}
	}
	return matchers
}
