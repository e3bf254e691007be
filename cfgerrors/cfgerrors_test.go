package cfgerrors_test

import (
	"errors"
	"iter"
	"net/http"
	"regexp"
	"regexp/syntax"
	"strings"
	"testing"

	"github.com/jub0bs/corspolicy/cfgerrors"
)

func TestAll(t *testing.T) {
	cases := []struct {
		desc      string
		err       error
		want      []error
		breakWhen func(error) bool
	}{
		{
			desc: "singleton",
			err:  err0,
			want: []error{
				err0,
			},
			breakWhen: alwaysFalse,
		}, {
			desc: "multi-error no break",
			err:  err4,
			want: []error{
				err2,
				err3,
			},
			breakWhen: alwaysFalse,
		}, {
			desc: "multi-error break early",
			err:  err4,
			want: []error{
				err2,
			},
			breakWhen: equal(err3),
		}, {
			desc: "single joined error no break",
			err:  err1,
			want: []error{
				err0,
			},
			breakWhen: alwaysFalse,
		}, {
			desc:      "single joined error break early",
			err:       err1,
			want:      []error{},
			breakWhen: equal(err0),
		}, {
			desc:      "complex error tree no break",
			err:       err5,
			breakWhen: alwaysFalse,
			want: []error{
				err0,
				err2,
				err3,
			},
		}, {
			desc:      "regex error is not unwrapped",
			err:       err7,
			breakWhen: alwaysFalse,
			want: []error{
				err6,
				err0,
			},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			got := cfgerrors.All(tc.err)
			assertEqual(t, got, tc.want, tc.breakWhen)
		}
		t.Run(tc.desc, f)
	}
}

var (
	err0 = errors.New("err0")
	err1 = errors.Join(err0)
	err2 = errors.New("err2")
	err3 = errors.New("err3")
	err4 = errors.Join(err2, err3)
	err5 = errors.Join(err1, err4)
	err6 = &cfgerrors.InvalidOriginRegexError{Value: "(", Err: err2}
	err7 = errors.Join(err6, err0)
)

func assertEqual(
	t *testing.T,
	got iter.Seq[error],
	want []error,
	breakWhen func(error) bool,
) {
	t.Helper()
	var errs []error
	var i int
	for err := range got {
		if breakWhen(err) {
			return
		}
		errs = append(errs, err)
		if len(want) <= i {
			t.Fatalf("too many elements: got %v...; want %v", errs, want)
		}
		if err != want[i] {
			t.Fatalf("unexpected element: got %v...; want %v...", errs, want[:i+1])
		}
		i++
	}
	if i != len(want) {
		t.Fatalf("not enough elements: got %v; want %v...", errs, want)
	}
}

func alwaysFalse(_ error) bool {
	return false
}

func equal(target error) func(error) bool {
	return func(err error) bool {
		return err == target
	}
}

func TestThatInvalidOriginRegexErrorUnwrapsToSyntaxError(t *testing.T) {
	const expr = `^https://(foo`
	_, cause := regexp.Compile(expr)
	if cause == nil {
		t.Fatalf("%q unexpectedly compiles", expr)
	}
	var err error = &cfgerrors.InvalidOriginRegexError{Value: expr, Err: cause}
	var syntaxErr *syntax.Error
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("got %v; want an error that unwraps to a *syntax.Error", err)
	}
	if syntaxErr.Code != syntax.ErrMissingParen {
		const tmpl = "got code %q; want %q"
		t.Errorf(tmpl, syntaxErr.Code, syntax.ErrMissingParen)
	}
}

func TestPackageNamePrefixInErrorMessages(t *testing.T) {
	errs := []error{
		&cfgerrors.UnacceptableOriginError{Reason: "missing"},
		&cfgerrors.UnacceptableOriginError{Value: "foo", Reason: "invalid"},
		&cfgerrors.UnacceptableOriginError{Value: "file:///etc", Reason: "opaque"},
		&cfgerrors.UnacceptableOriginError{Value: "*", Reason: "prohibited"},
		//
		&cfgerrors.InvalidOriginRegexError{Value: "(", Err: errors.New("oops")},
		//
		&cfgerrors.UnacceptableMethodError{Value: "résumé", Reason: "invalid"},
		&cfgerrors.UnacceptableMethodError{Value: http.MethodConnect, Reason: "forbidden"},
		//
		&cfgerrors.UnacceptableHeaderNameError{Value: "résumé", Type: "request", Reason: "invalid"},
		&cfgerrors.UnacceptableHeaderNameError{Value: "Connection", Type: "request", Reason: "forbidden"},
		&cfgerrors.UnacceptableHeaderNameError{Value: "Access-Control-Allow-Origin", Type: "request", Reason: "prohibited"},
		&cfgerrors.UnacceptableHeaderNameError{Value: "résumé", Type: "response", Reason: "invalid"},
		&cfgerrors.UnacceptableHeaderNameError{Value: "Set-Cookie", Type: "response", Reason: "forbidden"},
		&cfgerrors.UnacceptableHeaderNameError{Value: "Origin", Type: "response", Reason: "prohibited"},
		//
		&cfgerrors.MaxAgeOutOfBoundsError{Value: -2, Max: 86_400, Disable: -1},
		//
		new(cfgerrors.CredentialsWithWildcardOriginError),
	}
	const wantPrefix = "corspolicy: "
	for _, err := range errs {
		if msg := err.Error(); !strings.HasPrefix(msg, wantPrefix) {
			t.Errorf("missing package-name prefix in %q", msg)
		}
	}
}

// comparability checks
var (
	_ map[cfgerrors.UnacceptableOriginError]struct{}
	_ map[cfgerrors.InvalidOriginRegexError]struct{}
	_ map[cfgerrors.UnacceptableMethodError]struct{}
	_ map[cfgerrors.UnacceptableHeaderNameError]struct{}
	_ map[cfgerrors.MaxAgeOutOfBoundsError]struct{}
	_ map[cfgerrors.CredentialsWithWildcardOriginError]struct{}
)
