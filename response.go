package corspolicy

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jub0bs/corspolicy/internal/headers"
)

// A Response is the outcome of the successful evaluation of a request
// against a [Policy]: the CORS response headers that the request calls for.
// Responses are immutable.
type Response struct {
	kind       Kind
	acao       string // empty only for non-CORS requests
	acac       bool
	acam       string
	acah       string
	acma       string
	aceh       string
	varyOrigin bool
}

// Kind returns the kind of the request that res is for.
func (res *Response) Kind() Kind {
	return res.kind
}

// IsCORS reports whether res is for a CORS request. Merging a Response
// for which IsCORS returns false is a no-op.
func (res *Response) IsCORS() bool {
	return res.kind != NonCORS
}

// AllowOrigin returns the value of the Access-Control-Allow-Origin header:
// either the request's origin, in serialized form, or "*".
func (res *Response) AllowOrigin() string {
	return res.acao
}

// AllowCredentials reports whether res carries an
// Access-Control-Allow-Credentials header.
func (res *Response) AllowCredentials() bool {
	return res.acac
}

// AllowMethods returns the methods listed in the
// Access-Control-Allow-Methods header, if any.
func (res *Response) AllowMethods() []string {
	return split(res.acam)
}

// AllowHeaders returns the request-header names listed in the
// Access-Control-Allow-Headers header, if any.
func (res *Response) AllowHeaders() []string {
	return split(res.acah)
}

// ExposeHeaders returns the response-header names listed in the
// Access-Control-Expose-Headers header, if any.
func (res *Response) ExposeHeaders() []string {
	return split(res.aceh)
}

// MaxAge returns the value of the Access-Control-Max-Age header, and
// whether res carries one at all.
func (res *Response) MaxAge() (int, bool) {
	if res.acma == "" {
		return 0, false
	}
	delta, _ := strconv.Atoi(res.acma) // safe, by construction
	return delta, true
}

// VaryOrigin reports whether merging res lists Origin in the Vary header.
func (res *Response) VaryOrigin() bool {
	return res.varyOrigin
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, headers.ValueSep)
}

// Merge merges res into resHdrs, the headers of the response under
// construction. It overwrites every CORS response header present in resHdrs,
// removing those that res does not call for; it adds Origin to the Vary
// header (if required) without clobbering the latter's existing elements.
// Merging the Response for a non-CORS request is a no-op.
//
// Merge never retains or shares slices with resHdrs, so subsequent
// mutations of resHdrs (e.g. by a handler) cannot alter res.
func (res *Response) Merge(resHdrs http.Header) {
	if !res.IsCORS() {
		return
	}
	for _, name := range headers.ResponseNames {
		delete(resHdrs, name)
	}
	resHdrs[headers.ACAO] = []string{res.acao}
	if res.acac {
		resHdrs[headers.ACAC] = []string{headers.ValueTrue}
	}
	if res.acam != "" {
		resHdrs[headers.ACAM] = []string{res.acam}
	}
	if res.acah != "" {
		resHdrs[headers.ACAH] = []string{res.acah}
	}
	if res.acma != "" {
		resHdrs[headers.ACMA] = []string{res.acma}
	}
	if res.aceh != "" {
		resHdrs[headers.ACEH] = []string{res.aceh}
	}
	if res.varyOrigin {
		addVaryOrigin(resHdrs)
	}
}

// addVaryOrigin lists Origin in the Vary header of resHdrs,
// unless that header already lists it (or lists "*").
func addVaryOrigin(resHdrs http.Header) {
	for _, v := range resHdrs[headers.Vary] {
		for elem := range strings.SplitSeq(v, headers.ValueSep) {
			elem = strings.TrimSpace(elem)
			if elem == headers.ValueWildcard || strings.EqualFold(elem, headers.Origin) {
				return
			}
		}
	}
	// Note that we must add rather than set a Vary header here,
	// because outer middleware may have already added/set a Vary
	// header, which we wouldn't want to clobber.
	resHdrs.Add(headers.Vary, headers.Origin)
}
