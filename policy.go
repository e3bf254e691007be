package corspolicy

import (
	"net/http"
	"strings"

	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/jub0bs/corspolicy/internal/methods"
	"github.com/jub0bs/corspolicy/internal/origins"
	"github.com/jub0bs/corspolicy/internal/util"
	"go.uber.org/zap"
)

// A Policy is a frozen, validated CORS policy.
// Obtain one from [NewPolicy]; the zero value is not usable.
//
// Policies are immutable and safe for concurrent use by multiple goroutines.
type Policy struct {
	allOrigins   bool // allOrigins => origins is empty
	origins      origins.Matcher
	sendWildcard bool
	credentials  bool // credentials => !(allOrigins && sendWildcard)
	methods      util.SortedSet
	acam         string
	allHeaders   bool // allHeaders => headers is empty
	headers      util.SortedSet
	exposed      util.SortedSet
	aceh         string
	maxAge       int
	acma         string // empty if Access-Control-Max-Age is omitted
	logger       *zap.Logger
	observer     Observer
}

// An Observer is notified of the outcome of every evaluation performed by
// a [Policy]. Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveEvaluation is called once per evaluation, with the request's
	// kind and the rejection error (nil if the request was allowed).
	ObserveEvaluation(kind Kind, err error)
}

// Kind is the kind of a request, from the perspective of CORS.
type Kind uint8

const (
	NonCORS   Kind = iota // no Origin header
	Preflight             // OPTIONS with an Access-Control-Request-Method header
	Actual                // any other CORS request
)

func (k Kind) String() string {
	switch k {
	case NonCORS:
		return "non-cors"
	case Preflight:
		return "preflight"
	case Actual:
		return "actual"
	default:
		return "unknown"
	}
}

// Classify classifies r as a non-CORS, a [CORS-preflight], or an actual
// CORS request.
//
// Note that an OPTIONS request that lacks an Access-Control-Request-Method
// header is an actual CORS request, not a malformed preflight request.
//
// [CORS-preflight]: https://fetch.spec.whatwg.org/#cors-preflight-request
func Classify(r *http.Request) Kind {
	if _, found := headers.First(r.Header, headers.Origin); !found {
		// see https://fetch.spec.whatwg.org/#cors-request
		return NonCORS
	}
	if r.Method != http.MethodOptions {
		return Actual
	}
	if _, found := headers.First(r.Header, headers.ACRM); found {
		return Preflight
	}
	return Actual
}

// Evaluate evaluates r against p.
//
// For non-CORS requests, it returns an empty [*Response], which merging
// leaves responses unchanged, and a nil error.
// For allowed CORS requests, it returns the [*Response] to merge into the
// response under construction and a nil error.
// For rejected CORS requests, it returns a nil *Response and a
// [*RequestError].
//
// Evaluate is pure: evaluating a given request against a given policy
// always yields the same result.
func (p *Policy) Evaluate(r *http.Request) (*Response, error) {
	kind := Classify(r)
	var (
		res *Response
		err error
	)
	switch kind {
	case NonCORS:
		res = &Response{}
	case Preflight:
		res, err = p.evaluatePreflight(r.Header)
	default:
		res, err = p.evaluateActual(r.Header)
	}
	p.record(r, kind, err)
	return res, err
}

func (p *Policy) evaluatePreflight(reqHdrs http.Header) (*Response, error) {
	o, err := p.evaluateOrigin(reqHdrs)
	if err != nil {
		return nil, err
	}

	// Fetch-compliant browsers send at most one ACRM header;
	// see https://fetch.spec.whatwg.org/#cors-preflight-fetch (step 3).
	acrm, _ := headers.First(reqHdrs, headers.ACRM)
	if !methods.IsValid(acrm) {
		err := &RequestError{Kind: ErrBadRequestMethod, Value: acrm}
		return nil, err
	}
	if !p.methods.Contains(acrm) {
		err := &RequestError{Kind: ErrMethodNotAllowed, Value: acrm}
		return nil, err
	}

	acrhs := reqHdrs[headers.ACRH]
	names, ok := headers.ParseNames(acrhs)
	if !ok {
		err := &RequestError{
			Kind:  ErrBadRequestHeaders,
			Value: strings.Join(acrhs, headers.ValueSep),
		}
		return nil, err
	}
	if !p.allHeaders {
		for _, name := range names.ToSlice() {
			if !p.headers.Contains(name) {
				err := &RequestError{Kind: ErrHeadersNotAllowed, Value: name}
				return nil, err
			}
		}
	}

	res := p.newResponse(Preflight, &o)
	res.acam = p.acam
	res.acah = names.Join(headers.ValueSep)
	res.acma = p.acma
	return res, nil
}

func (p *Policy) evaluateActual(reqHdrs http.Header) (*Response, error) {
	o, err := p.evaluateOrigin(reqHdrs)
	if err != nil {
		return nil, err
	}
	res := p.newResponse(Actual, &o)
	res.aceh = p.aceh
	return res, nil
}

func (p *Policy) evaluateOrigin(reqHdrs http.Header) (origins.Origin, error) {
	// Fetch-compliant browsers send at most one Origin header;
	// see https://fetch.spec.whatwg.org/#http-network-or-cache-fetch
	// (step 12).
	raw, _ := headers.First(reqHdrs, headers.Origin)
	o, err := origins.Parse(raw)
	if err != nil {
		err := &RequestError{Kind: ErrBadOrigin, Value: raw}
		return origins.Origin{}, err
	}
	if !p.allOrigins && !p.origins.Match(&o) {
		err := &RequestError{Kind: ErrOriginNotAllowed, Value: raw}
		return origins.Origin{}, err
	}
	return o, nil
}

func (p *Policy) newResponse(kind Kind, o *origins.Origin) *Response {
	res := Response{
		kind: kind,
		acac: p.credentials,
	}
	if p.sendsWildcard() {
		res.acao = headers.ValueWildcard
	} else {
		res.acao = o.String()
		// See https://fetch.spec.whatwg.org/#cors-protocol-and-http-caches.
		res.varyOrigin = true
	}
	return &res
}

// sendsWildcard reports whether p responds with the wildcard origin,
// in which case responses never vary on Origin.
func (p *Policy) sendsWildcard() bool {
	return p.allOrigins && p.sendWildcard
}

func (p *Policy) record(r *http.Request, kind Kind, err error) {
	if p.observer != nil {
		p.observer.ObserveEvaluation(kind, err)
	}
	if kind == NonCORS {
		return
	}
	origin, _ := headers.First(r.Header, headers.Origin)
	if err != nil {
		if ce := p.logger.Check(zap.InfoLevel, "CORS request rejected"); ce != nil {
			ce.Write(
				zap.String("origin", origin),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Stringer("kind", kind),
				zap.Int("status", statusOf(err)),
				zap.Error(err),
			)
		}
		return
	}
	if ce := p.logger.Check(zap.DebugLevel, "CORS request allowed"); ce != nil {
		ce.Write(
			zap.String("origin", origin),
			zap.String("method", r.Method),
			zap.Stringer("kind", kind),
		)
	}
}
