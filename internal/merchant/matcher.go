// Package merchant provides the static merchant regex reference table used as
// the third categorization tier.
package merchant

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is one merchant-matching rule. Higher priority patterns are checked
// first; ordering is fixed at compile time so matching stays deterministic.
type Pattern struct {
	Name     string
	Regex    string
	Category string
	Priority int
}

type compiledPattern struct {
	re *regexp.Regexp
	Pattern
}

// Matcher tests descriptions against an ordered list of merchant patterns.
type Matcher struct {
	patterns []compiledPattern
}

// NewMatcher compiles the given patterns. Patterns are made case-insensitive
// and sorted by priority descending, preserving input order between equal
// priorities.
func NewMatcher(patterns []Pattern) (*Matcher, error) {
	compiled := make([]compiledPattern, 0, len(patterns))

	for _, p := range patterns {
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}

		re, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile merchant pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, compiledPattern{Pattern: p, re: re})
	}

	// Stable sort by priority, highest first.
	for i := 1; i < len(compiled); i++ {
		for j := i; j > 0 && compiled[j].Priority > compiled[j-1].Priority; j-- {
			compiled[j], compiled[j-1] = compiled[j-1], compiled[j]
		}
	}

	return &Matcher{patterns: compiled}, nil
}

// Default returns a matcher over DefaultPatterns. Panics if the built-in
// table fails to compile, which is a programming error.
func Default() *Matcher {
	m, err := NewMatcher(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns the category of the first matching pattern.
func (m *Matcher) Match(description string) (string, bool) {
	for _, p := range m.patterns {
		if p.re.MatchString(description) {
			return p.Category, true
		}
	}
	return "", false
}
