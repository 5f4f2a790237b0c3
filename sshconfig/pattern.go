package sshconfig

import "strings"

// matchPattern reports whether hostname matches a glob pattern where '*'
// matches any run of characters and '?' matches exactly one. The pattern
// must already have any leading '!' stripped.
func matchPattern(pattern, hostname string) bool {
	return globMatch(pattern, hostname)
}

func globMatch(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive stars, then try every split point.
			pattern = strings.TrimLeft(pattern, "*")
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if globMatch(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if s == "" {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		default:
			if s == "" || s[0] != pattern[0] {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		}
	}
	return s == ""
}

// specificity ranks a pattern for override ordering. Higher is more
// specific. An exact pattern (no wildcards) outranks every wildcard
// pattern; among wildcard patterns, a longer literal prefix before the
// first wildcard ranks higher, with total literal length as tiebreak.
// Registration order breaks remaining ties (handled by the caller:
// later registration is more specific).
func specificity(pattern string) int {
	firstWildcard := strings.IndexAny(pattern, "*?")
	if firstWildcard < 0 {
		// Exact hostname: above any wildcard pattern of any length.
		return 1 << 20
	}
	literals := len(pattern) - strings.Count(pattern, "*") - strings.Count(pattern, "?")
	return firstWildcard<<10 + literals
}
