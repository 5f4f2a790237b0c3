package sshconfig

import (
	"sort"
	"strings"
)

// HostRule is one registered host pattern with its validated options.
type HostRule struct {
	// Pattern is the glob pattern with any leading '!' stripped.
	Pattern string

	// Negated marks a pattern registered with a leading '!'. When a
	// negated pattern matches a hostname, its option names are excluded
	// from the resolution instead of applied.
	Negated bool

	options map[string]string
}

// Options returns a copy of the rule's option map, canonical names.
func (r *HostRule) Options() map[string]string {
	out := make(map[string]string, len(r.options))
	for k, v := range r.options {
		out[k] = v
	}
	return out
}

// Config is the typed SSH client configuration model: one global option
// set plus an ordered list of host patterns. Every option is validated
// against the recognized schema at insertion; Resolve never sees an
// invalid value.
type Config struct {
	global map[string]string
	rules  []HostRule
}

// New creates an empty configuration.
func New() *Config {
	return &Config{global: make(map[string]string)}
}

// SetGlobal sets a global option applying to every host unless a matching
// pattern overrides it. Returns *InvalidOptionError for unknown names or
// out-of-schema values.
func (c *Config) SetGlobal(name, value string) error {
	canonical, err := validateOption(name, value)
	if err != nil {
		return err
	}
	c.global[canonical] = value
	return nil
}

// AddHost registers a host pattern with its options. A leading '!' on the
// pattern registers a negated pattern. All options are validated before
// any of them is stored, so a failed call leaves the configuration
// untouched. Returns *InvalidOptionError on the first invalid option.
func (c *Config) AddHost(pattern string, options map[string]string) error {
	rule := HostRule{Pattern: pattern, options: make(map[string]string, len(options))}
	if strings.HasPrefix(pattern, "!") {
		rule.Negated = true
		rule.Pattern = pattern[1:]
	}

	validated := make(map[string]string, len(options))
	for name, value := range options {
		canonical, err := validateOption(name, value)
		if err != nil {
			return err
		}
		validated[canonical] = value
	}
	rule.options = validated
	c.rules = append(c.rules, rule)
	return nil
}

// Rules returns the registered host rules in registration order.
func (c *Config) Rules() []HostRule {
	out := make([]HostRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Global returns a copy of the global option set.
func (c *Config) Global() map[string]string {
	out := make(map[string]string, len(c.global))
	for k, v := range c.global {
		out[k] = v
	}
	return out
}

func validateOption(name, value string) (string, error) {
	spec, ok := lookupOption(name)
	if !ok {
		return "", &InvalidOptionError{Name: name, Reason: "unrecognized option"}
	}
	if err := spec.validate(value); err != nil {
		return "", &InvalidOptionError{Name: spec.name, Reason: err.Error()}
	}
	return spec.name, nil
}

// Resolved is the final merged option set for one hostname. Option names
// are canonical. Origin records where each value came from: a pattern, or
// "global".
type Resolved struct {
	values  map[string]string
	origins map[string]string
}

// Get returns the value for a canonical or case-insensitive option name,
// or "" when unset.
func (r *Resolved) Get(name string) string {
	if spec, ok := lookupOption(name); ok {
		name = spec.name
	}
	return r.values[name]
}

// Has reports whether the option is set.
func (r *Resolved) Has(name string) bool {
	if spec, ok := lookupOption(name); ok {
		name = spec.name
	}
	_, ok := r.values[name]
	return ok
}

// Origin returns the pattern that supplied an option's value, or "global".
func (r *Resolved) Origin(name string) string {
	if spec, ok := lookupOption(name); ok {
		name = spec.name
	}
	return r.origins[name]
}

// Names returns the set option names, sorted.
func (r *Resolved) Names() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of set options.
func (r *Resolved) Len() int {
	return len(r.values)
}

// Resolve merges the global set with every pattern matching hostname,
// ordered from most to least specific, applying OpenSSH's "first obtained
// value wins" rule per option. Specificity: exact hostname, then longer
// literal prefix before the first wildcard, then registration order with
// later registration more specific. A matching negated pattern suppresses
// its option names from all less specific patterns and from the global
// set; a more specific non-negated pattern still applies. Resolve is a
// pure function of the configuration: it never mutates stored state.
func (c *Config) Resolve(hostname string) *Resolved {
	type match struct {
		rule  *HostRule
		score int
		index int
	}

	var matches []match
	for i := range c.rules {
		rule := &c.rules[i]
		if matchPattern(rule.Pattern, hostname) {
			matches = append(matches, match{rule: rule, score: specificity(rule.Pattern), index: i})
		}
	}

	// Most specific first. Later-registered rules of equal pattern
	// specificity are more specific.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].index > matches[j].index
	})

	resolved := &Resolved{
		values:  make(map[string]string),
		origins: make(map[string]string),
	}
	suppressed := make(map[string]bool)

	for _, m := range matches {
		if m.rule.Negated {
			for name := range m.rule.options {
				if _, set := resolved.values[name]; !set {
					suppressed[name] = true
				}
			}
			continue
		}
		for name, value := range m.rule.options {
			if suppressed[name] {
				continue
			}
			if _, set := resolved.values[name]; set {
				continue // First obtained value wins.
			}
			resolved.values[name] = value
			resolved.origins[name] = m.rule.Pattern
		}
	}

	for name, value := range c.global {
		if suppressed[name] {
			continue
		}
		if _, set := resolved.values[name]; set {
			continue
		}
		resolved.values[name] = value
		resolved.origins[name] = "global"
	}

	return resolved
}
