package origins

import (
	"regexp"

	"github.com/jub0bs/corspolicy/internal/util"
)

// A Matcher represents a set of allowed origins: exact tuple origins,
// regular expressions, and (optionally) the null origin.
//
// A Matcher is populated once and only read afterwards;
// it is then safe for concurrent use.
type Matcher struct {
	exact     util.SortedSet // ASCII serializations of tuple origins
	regexps   []*regexp.Regexp
	allowNull bool
}

// AddExact adds o to the set of origins that m matches exactly.
// Precondition: o is a tuple origin.
func (m *Matcher) AddExact(o *Origin) {
	m.exact.Add(o.String())
}

// AddRegexp adds re to the regular expressions that m matches origins
// against. Regular expressions are not implicitly anchored.
func (m *Matcher) AddRegexp(re *regexp.Regexp) {
	m.regexps = append(m.regexps, re)
}

// AllowNull configures m to match the null origin.
func (m *Matcher) AllowNull() {
	m.allowNull = true
}

// Match reports whether o is allowed by m.
//
// Tuple origins are looked up in the exact set first and then tested,
// through their ASCII serialization, against each regular expression in
// the order in which they were added.
// Opaque origins are tested against the regular expressions only,
// through their raw value.
// The null origin matches only if m allows it.
func (m *Matcher) Match(o *Origin) bool {
	switch o.Kind {
	case Null:
		return m.allowNull
	case Tuple:
		s := o.String()
		if m.exact.Contains(s) {
			return true
		}
		return m.matchRegexp(s)
	default:
		return m.matchRegexp(o.raw)
	}
}

func (m *Matcher) matchRegexp(s string) bool {
	for _, re := range m.regexps {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Exact returns the sorted serializations of the exact origins in m.
func (m *Matcher) Exact() []string {
	return m.exact.ToSlice()
}

// Regexps returns the source text of m's regular expressions,
// in the order in which they were added.
func (m *Matcher) Regexps() []string {
	var res []string
	for _, re := range m.regexps {
		res = append(res, re.String())
	}
	return res
}

// NullAllowed reports whether m matches the null origin.
func (m *Matcher) NullAllowed() bool {
	return m.allowNull
}
