package sshconfig

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern  string
		hostname string
		want     bool
	}{
		{"github.com", "github.com", true},
		{"github.com", "gitlab.com", false},
		{"*", "anything.example.com", true},
		{"*.example.com", "ci.example.com", true},
		{"*.example.com", "a.b.example.com", true},
		{"*.example.com", "example.com", false},
		{"ci.example.*", "ci.example.com", true},
		{"ci.example.*", "ci.example.org", true},
		{"web?.example.com", "web1.example.com", true},
		{"web?.example.com", "web12.example.com", false},
		{"web?.example.com", "web.example.com", false},
		{"*.internal.*", "db.internal.corp", true},
		{"**", "x", true},
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.hostname); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.hostname, got, tt.want)
		}
	}
}

func TestSpecificity(t *testing.T) {
	// Exact hostnames outrank any wildcard pattern.
	if specificity("ci.example.com") <= specificity("*.example.com") {
		t.Error("exact pattern should outrank wildcard pattern")
	}
	if specificity("ci.example.com") <= specificity("ci.example.co?") {
		t.Error("exact pattern should outrank ?-pattern")
	}

	// Longer literal prefix before the first wildcard ranks higher.
	if specificity("ci.*.example.com") <= specificity("*.example.com") {
		t.Error("longer literal prefix should rank higher")
	}

	// More literal characters overall breaks prefix ties.
	if specificity("*.corp.example.com") <= specificity("*.com") {
		t.Error("more literal characters should rank higher on equal prefix")
	}
}
