package util_test

import (
	"slices"
	"testing"

	"github.com/jub0bs/corspolicy/internal/util"
)

func TestSortedSet(t *testing.T) {
	cases := []struct {
		desc  string
		elems []string
		// expectations
		size   int
		slice  []string
		joined string
	}{
		{
			desc: "empty set",
		}, {
			desc:   "singleton set",
			elems:  []string{"x-foo"},
			size:   1,
			slice:  []string{"x-foo"},
			joined: "x-foo",
		}, {
			desc:   "no dupes",
			elems:  []string{"x-foo", "x-bar", "x-quux"},
			size:   3,
			slice:  []string{"x-bar", "x-foo", "x-quux"},
			joined: "x-bar,x-foo,x-quux",
		}, {
			desc:   "some dupes",
			elems:  []string{"x-foo", "x-bar", "x-foo"},
			size:   2,
			slice:  []string{"x-bar", "x-foo"},
			joined: "x-bar,x-foo",
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			set := newSortedSet(tc.elems...)
			s := set.ToSlice()
			if got := len(s); got != tc.size {
				const tmpl = "%q: got %d elements; want %d"
				t.Errorf(tmpl, tc.elems, got, tc.size)
			}
			if !slices.Equal(s, tc.slice) {
				const tmpl = "%q.ToSlice(): got %q; want %q"
				t.Errorf(tmpl, tc.elems, s, tc.slice)
			}
			if got := set.Join(","); got != tc.joined {
				const tmpl = "%q.Join(\",\"): got %q; want %q"
				t.Errorf(tmpl, tc.elems, got, tc.joined)
			}
			for _, e := range tc.elems {
				if !set.Contains(e) {
					const tmpl = "%q.Contains(%q): got false; want true"
					t.Errorf(tmpl, tc.elems, e)
				}
			}
			for _, e := range []string{"", "x-baz", "x-foo-but-longer"} {
				if set.Contains(e) {
					const tmpl = "%q.Contains(%q): got true; want false"
					t.Errorf(tmpl, tc.elems, e)
				}
			}
		}
		t.Run(tc.desc, f)
	}
}

func TestThatToSliceReturnsACopy(t *testing.T) {
	set := newSortedSet("x-bar", "x-foo")
	s := set.ToSlice()
	s[0] = "mutated!"
	if !set.Contains("x-bar") {
		t.Error("mutating the result of ToSlice altered the set")
	}
}

func newSortedSet(elems ...string) util.SortedSet {
	var set util.SortedSet
	for _, e := range elems {
		set.Add(e)
	}
	return set
}
