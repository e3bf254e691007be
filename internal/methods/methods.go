// Package methods validates and normalizes HTTP method names
// for use in CORS policies and CORS-preflight requests.
package methods

import (
	"net/http"

	"github.com/jub0bs/corspolicy/internal/util"
	"golang.org/x/net/http/httpguts"
)

// Defaults lists the methods a policy allows when none are configured.
var Defaults = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodOptions,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// IsValid reports whether name is a valid method, [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#concept-method
func IsValid(name string) bool {
	// The method production is the same as the token production
	// that header names use.
	return httpguts.ValidHeaderFieldName(name)
}

// IsForbidden reports whether name is a forbidden method,
// [per the Fetch standard]. The comparison is case-insensitive.
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#forbidden-method
func IsForbidden(name string) bool {
	switch util.ByteUppercase(name) {
	case http.MethodConnect, http.MethodTrace, "TRACK":
		return true
	default:
		return false
	}
}

// Normalize byte-uppercases name if it case-insensitively matches one of the
// standard methods, and returns name unchanged otherwise.
// Custom methods (e.g. "purge") are case-sensitive.
//
// See https://fetch.spec.whatwg.org/#concept-method-normalize.
// PATCH is normalized too, for leniency in configuration.
func Normalize(name string) string {
	upper := util.ByteUppercase(name)
	switch upper {
	case http.MethodDelete,
		http.MethodGet,
		http.MethodHead,
		http.MethodOptions,
		http.MethodPatch,
		http.MethodPost,
		http.MethodPut:
		return upper
	default:
		return name
	}
}
