/*
Package cfgerrors provides functionalities for programmatically handling
configuration errors produced by package [github.com/jub0bs/corspolicy].

Most users of package [github.com/jub0bs/corspolicy] have no use for this
package. However, services that let their tenants configure CORS (e.g. via
some Web portal or some command-line interface) may find it useful: it
allows them to inform their tenants about CORS-configuration mistakes via
custom, human-friendly error messages.
*/
package cfgerrors

import (
	"fmt"
	"iter"
)

// An UnacceptableOriginError indicates an unacceptable exact origin.
// The Reason field may take one of four values:
//   - "missing": origins are restricted but no origin at all is allowed;
//   - "invalid": the origin cannot be parsed as an absolute URL;
//   - "opaque": the origin's scheme makes it an [opaque origin], which
//     can only be allowed by a regular expression;
//   - "prohibited": the value ("*" or "null") cannot be an exact origin.
//
// For more details, see [github.com/jub0bs/corspolicy.OriginSet].
//
// [opaque origin]: https://html.spec.whatwg.org/multipage/browsers.html#concept-origin-opaque
type UnacceptableOriginError struct {
	Value  string // the unacceptable value that was specified
	Reason string // missing | invalid | opaque | prohibited
}

func (err *UnacceptableOriginError) Error() string {
	switch err.Reason {
	case "missing":
		return "corspolicy: at least one origin must be allowed"
	case "opaque":
		const tmpl = "corspolicy: opaque origin %q can only be allowed by a regular expression"
		return fmt.Sprintf(tmpl, err.Value)
	default:
		const tmpl = "corspolicy: %s origin %q"
		return fmt.Sprintf(tmpl, err.Reason, err.Value)
	}
}

// An InvalidOriginRegexError indicates a regular expression that fails to
// compile. Err is the error reported by the [regexp] package; it's typically
// a [*regexp/syntax.Error].
//
// For more details, see [github.com/jub0bs/corspolicy.OriginSet].
type InvalidOriginRegexError struct {
	Value string // the unacceptable value that was specified
	Err   error
}

func (err *InvalidOriginRegexError) Error() string {
	const tmpl = "corspolicy: invalid origin regex %q: %v"
	return fmt.Sprintf(tmpl, err.Value, err.Err)
}

func (err *InvalidOriginRegexError) Unwrap() error {
	return err.Err
}

// An UnacceptableMethodError indicates an unacceptable method.
// The Reason field may take one of two values:
//   - "invalid": the method is invalid;
//   - "forbidden": the method is forbidden by [the Fetch standard].
//
// For more details, see [github.com/jub0bs/corspolicy.Options.AllowedMethods].
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type UnacceptableMethodError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid | forbidden
}

func (err *UnacceptableMethodError) Error() string {
	const tmpl = "corspolicy: %s method %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An UnacceptableHeaderNameError indicates an unacceptable header name.
// The Type field may take one of two values:
//   - "request";
//   - "response".
//
// The Reason field may take one of three values:
//   - "invalid": the header name is invalid;
//   - "prohibited": the header name is prohibited by this library;
//   - "forbidden": the header name is forbidden by [the Fetch standard].
//
// For more details, see [github.com/jub0bs/corspolicy.HeaderSet] and
// [github.com/jub0bs/corspolicy.Options.ExposeHeaders].
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type UnacceptableHeaderNameError struct {
	Value  string // the unacceptable value that was specified
	Type   string // request | response
	Reason string // invalid | prohibited | forbidden
}

func (err *UnacceptableHeaderNameError) Error() string {
	const tmpl = "corspolicy: %s %s-header name %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Type, err.Value)
}

// A MaxAgeOutOfBoundsError indicates a max-age value that's either too low
// or too high.
//
// For more details, see [github.com/jub0bs/corspolicy.Options.MaxAgeInSeconds].
type MaxAgeOutOfBoundsError struct {
	Value   int // the unacceptable value that was specified
	Max     int // maximum max-age value permitted by this library
	Disable int // sentinel value for disabling preflight caching
}

func (err *MaxAgeOutOfBoundsError) Error() string {
	const tmpl = "corspolicy: out-of-bounds max-age value %d (max: %d; disable caching: %d)"
	return fmt.Sprintf(tmpl, err.Value, err.Max, err.Disable)
}

// A CredentialsWithWildcardOriginError indicates an attempt to both allow
// credentials and respond with the wildcard origin, either because all
// origins are allowed with SendWildcard set or because "*" was listed as
// an exact origin. Browsers reject such responses.
//
// For more details, see [github.com/jub0bs/corspolicy.Options.SendWildcard].
type CredentialsWithWildcardOriginError struct{}

func (*CredentialsWithWildcardOriginError) Error() string {
	return "corspolicy: for security reasons, you cannot both allow credentials and send the wildcard origin"
}

// All returns an iterator over the CORS-configuration errors contained in
// err's error tree. The order is unspecified and may change from one release
// to the next. All only supports error values returned by
// [github.com/jub0bs/corspolicy.NewPolicy]; it should not be called on
// any other error value.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		every(err, yield)
	}
}

func every(err error, f func(error) bool) bool {
	switch err := err.(type) {
	// No "interface { Unwrap() error }" case: the only single-error wrapper
	// (InvalidOriginRegexError) is itself a leaf of interest.
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !every(err, f) {
				return false
			}
		}
		return true
	default:
		return f(err)
	}
}
