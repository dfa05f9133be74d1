package filter

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/ryanuber/go-glob"

	"github.com/fluxcd/graphdiff/pkg/graph"
)

const (
	globPrefix      = "glob:"
	regexpPrefix    = "regexp:"
	regexpAltPrefix = "regex:"
)

// PatternAll matches everything.
var PatternAll = NewPattern(globPrefix + "*")

// Pattern matches member names.
type Pattern interface {
	// Matches returns true if the given member name matches the pattern.
	Matches(name string) bool
	// String returns the prefixed string representation.
	String() string
	// Valid returns true if the pattern is considered valid.
	Valid() bool
}

type GlobPattern string

// RegexpPattern matches by regular expression.
type RegexpPattern struct {
	pattern string // pattern without prefix
	regexp  *regexp.Regexp
}

// NewPattern instantiates a Pattern according to the prefix
// it finds. The prefix can be either `glob:` (default if omitted)
// or `regexp:`.
func NewPattern(pattern string) Pattern {
	switch {
	case strings.HasPrefix(pattern, regexpPrefix):
		pattern = strings.TrimPrefix(pattern, regexpPrefix)
		r, _ := regexp.Compile(pattern)
		return RegexpPattern{pattern, r}
	case strings.HasPrefix(pattern, regexpAltPrefix):
		pattern = strings.TrimPrefix(pattern, regexpAltPrefix)
		r, _ := regexp.Compile(pattern)
		return RegexpPattern{pattern, r}
	default:
		return GlobPattern(strings.TrimPrefix(pattern, globPrefix))
	}
}

func (g GlobPattern) Matches(name string) bool {
	return glob.Glob(string(g), name)
}

func (g GlobPattern) String() string {
	return globPrefix + string(g)
}

func (g GlobPattern) Valid() bool {
	return true
}

func (r RegexpPattern) Matches(name string) bool {
	if r.regexp == nil {
		// Invalid regexp matches nothing
		return false
	}
	return r.regexp.MatchString(name)
}

func (r RegexpPattern) String() string {
	return regexpPrefix + r.pattern
}

func (r RegexpPattern) Valid() bool {
	return r.regexp != nil
}

// Patterns is a set of patterns, matching a name if any of them do.
type Patterns []Pattern

// ParsePatterns parses each of the given patterns, and fails on the
// first which isn't valid.
func ParsePatterns(patterns []string) (Patterns, error) {
	var ps Patterns
	for _, s := range patterns {
		p := NewPattern(s)
		if !p.Valid() {
			return nil, errors.Errorf("invalid pattern %q", s)
		}
		ps = append(ps, p)
	}
	return ps, nil
}

func (ps Patterns) Matches(name string) bool {
	for _, p := range ps {
		if p.Matches(name) {
			return true
		}
	}
	return false
}

func (ps Patterns) Strings() []string {
	var ss []string
	for _, p := range ps {
		ss = append(ss, p.String())
	}
	return ss
}

// Exclude returns a member filter, for diff.Config.MemberFilter, which
// lets through members whose names match none of the patterns. With
// no patterns it returns nil, so everything is compared.
func (ps Patterns) Exclude() func(*graph.Member) bool {
	if len(ps) == 0 {
		return nil
	}
	return func(m *graph.Member) bool {
		return !ps.Matches(m.Name)
	}
}
