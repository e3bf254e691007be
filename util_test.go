package corspolicy_test

import (
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
)

const (
	// request headers
	headerOrigin = "Origin"
	headerACRM   = "Access-Control-Request-Method"
	headerACRH   = "Access-Control-Request-Headers"

	// response headers
	headerACAO = "Access-Control-Allow-Origin"
	headerACAC = "Access-Control-Allow-Credentials"
	headerACAM = "Access-Control-Allow-Methods"
	headerACAH = "Access-Control-Allow-Headers"
	headerACMA = "Access-Control-Max-Age"
	headerACEH = "Access-Control-Expose-Headers"

	headerVary = "Vary"
)

const defaultMethods = "DELETE,GET,HEAD,OPTIONS,PATCH,POST,PUT"

// Headers represent a set of HTTP-header name-value pairs
// in which there are no duplicate names.
type Headers = map[string]string

func newRequest(method string, headers Headers) *http.Request {
	const dummyEndpoint = "https://api.example.com/whatever"
	req := httptest.NewRequest(method, dummyEndpoint, nil)
	for name, value := range headers {
		req.Header.Add(name, value)
	}
	return req
}

// flatten joins the values of each header in hdrs with commas,
// for ease of comparison with a Headers value.
func flatten(hdrs http.Header) Headers {
	res := make(Headers, len(hdrs))
	for k, vs := range hdrs {
		res[k] = strings.Join(vs, ",")
	}
	return res
}

func assertHeadersEqual(t *testing.T, got http.Header, want Headers) {
	t.Helper()
	flat := flatten(got)
	if !maps.Equal(flat, want) {
		keys := slices.Sorted(maps.Keys(flat))
		const tmpl = "got headers\n\t%v (keys %q);\nwant\n\t%v"
		t.Errorf(tmpl, flat, keys, want)
	}
}

type spyHandler struct {
	called      atomic.Bool
	statusCode  int
	respHeaders Headers
	body        string
}

func newSpyHandler(statusCode int, respHeaders Headers, body string) *spyHandler {
	return &spyHandler{
		statusCode:  statusCode,
		respHeaders: respHeaders,
		body:        body,
	}
}

func (s *spyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	s.called.Store(true)
	for k, v := range s.respHeaders {
		w.Header().Add(k, v)
	}
	w.WriteHeader(s.statusCode)
	if len(s.body) > 0 {
		io.WriteString(w, s.body)
	}
}
