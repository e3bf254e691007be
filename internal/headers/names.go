package headers

import "strings"

// All functions in this file expect a valid and [byte-lowercase] header name.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase

// IsForbiddenRequestHeaderName reports whether name is a
// [forbidden request-header name]. Browsers never let clients set such
// headers, so allowing them in a policy is pointless.
//
// [forbidden request-header name]: https://fetch.spec.whatwg.org/#forbidden-header-name
func IsForbiddenRequestHeaderName(name string) bool {
	if _, found := forbiddenRequestHeaderNames[name]; found {
		return true
	}
	return strings.HasPrefix(name, "proxy-") ||
		strings.HasPrefix(name, "sec-")
}

var forbiddenRequestHeaderNames = set(
	"accept-charset",
	"accept-encoding",
	"access-control-request-headers",
	"access-control-request-method",
	"access-control-request-private-network",
	"connection",
	"content-length",
	"cookie",
	"cookie2",
	"date",
	"dnt",
	"expect",
	"host",
	"keep-alive",
	"origin",
	"referer",
	"set-cookie",
	"te",
	"trailer",
	"transfer-encoding",
	"upgrade",
	"via",
)

// IsResponseOnlyHeaderName reports whether name is the name of a CORS
// response header. Allowing such names as request headers almost always
// stems from a misunderstanding of CORS.
func IsResponseOnlyHeaderName(name string) bool {
	_, found := responseOnlyHeaderNames[name]
	return found
}

var responseOnlyHeaderNames = set(
	"access-control-allow-credentials",
	"access-control-allow-headers",
	"access-control-allow-methods",
	"access-control-allow-origin",
	"access-control-allow-private-network",
	"access-control-expose-headers",
	"access-control-max-age",
)

// IsForbiddenResponseHeaderName reports whether name is a
// [forbidden response-header name], which browsers never expose.
//
// [forbidden response-header name]: https://fetch.spec.whatwg.org/#forbidden-response-header-name
func IsForbiddenResponseHeaderName(name string) bool {
	return name == "set-cookie" || name == "set-cookie2"
}

// IsRequestOnlyHeaderName reports whether name is the name of a header
// that only makes sense in requests (or in preflight responses), and that
// therefore cannot sensibly be exposed.
func IsRequestOnlyHeaderName(name string) bool {
	_, found := requestOnlyHeaderNames[name]
	return found
}

var requestOnlyHeaderNames = set(
	"origin",
	"access-control-request-method",
	"access-control-request-headers",
	"access-control-request-private-network",
	"access-control-allow-methods",
	"access-control-allow-headers",
	"access-control-max-age",
	"access-control-allow-private-network",
)

func set(elems ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		m[e] = struct{}{}
	}
	return m
}
