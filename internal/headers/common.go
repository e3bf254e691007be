// Package headers provides the names of CORS-related HTTP headers
// and helpers for validating and parsing their values.
package headers

import (
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// header names in canonical format
const (
	// common request headers
	Origin = "Origin"

	// preflight-only request headers
	ACRM = "Access-Control-Request-Method"
	ACRH = "Access-Control-Request-Headers"

	// common response headers
	ACAO = "Access-Control-Allow-Origin"
	ACAC = "Access-Control-Allow-Credentials"

	// preflight-only response headers
	ACAM = "Access-Control-Allow-Methods"
	ACAH = "Access-Control-Allow-Headers"
	ACMA = "Access-Control-Max-Age"

	// actual-only response headers
	ACEH = "Access-Control-Expose-Headers"

	Vary = "Vary"
)

const (
	ValueTrue     = "true"
	ValueWildcard = "*"
	ValueNull     = "null"
	ValueSep      = ","
)

// ResponseNames lists the names of all the CORS response headers
// that a policy may set.
var ResponseNames = []string{ACAO, ACAC, ACAM, ACAH, ACMA, ACEH}

// IsValid reports whether name is a valid header name,
// [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#header-name
func IsValid(name string) bool {
	return httpguts.ValidHeaderFieldName(name)
}

// First returns the first value associated with k in hdrs, if any.
// Precondition: k is in canonical format (see [http.CanonicalHeaderKey]).
//
// Contrary to [http.Header.Get], First distinguishes between an absent
// header and a header whose value is empty.
func First(hdrs http.Header, k string) (string, bool) {
	v, found := hdrs[k]
	if !found || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
