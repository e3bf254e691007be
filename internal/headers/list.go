package headers

import (
	"strings"

	"github.com/jub0bs/corspolicy/internal/util"
)

const (
	MaxOWSBytes      = 2  // number of leading/trailing OWS bytes tolerated
	MaxEmptyElements = 16 // number of empty list elements tolerated
)

// ParseNames parses acrhs, the values of one or more
// Access-Control-Request-Headers field lines, as a [list-based field]
// of header names.
// Although Fetch-compliant browsers send at most one such field line,
// intermediaries may split it into several, and may sprinkle some
// whitespace or empty elements around names.
//
// If parsing succeeds, ParseNames returns the (byte-lowercased, sorted,
// deduplicated) names and true.
// It fails if an element is not a valid header name, if an element is
// surrounded by more than [MaxOWSBytes] bytes of OWS on either side,
// or if the list contains more than [MaxEmptyElements] empty elements.
//
// [list-based field]: https://httpwg.org/specs/rfc9110.html#abnf.extension
func ParseNames(acrhs []string) (util.SortedSet, bool) {
	var (
		names         util.SortedSet
		emptyElements int
	)
	for _, acrh := range acrhs {
		for elem := range strings.SplitSeq(acrh, ValueSep) {
			name, ok := TrimOWS(elem, MaxOWSBytes)
			if !ok {
				return util.SortedSet{}, false
			}
			if name == "" {
				// RFC 9110 requires recipients to tolerate
				// "a reasonable number of empty list elements"; see
				// https://httpwg.org/specs/rfc9110.html#abnf.extension.recipient.
				emptyElements++
				if emptyElements > MaxEmptyElements {
					return util.SortedSet{}, false
				}
				continue
			}
			if !IsValid(name) {
				return util.SortedSet{}, false
			}
			names.Add(util.ByteLowercase(name))
		}
	}
	return names, true
}
