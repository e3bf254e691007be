package corspolicy

import "net/http"

// According to the Fetch standard, any 2xx status code is acceptable
// to mark a preflight response as successful.
// Arguably, 204 (No Content) is the most appropriate status code.
const preflightOKStatus = http.StatusNoContent

// Wrap applies p to h.
//
//   - Non-CORS requests are passed on to h, with Origin listed in the Vary
//     header of the response if p's responses depend on the origin.
//   - Rejected requests get a response with the appropriate status
//     (see [*RequestError.Status]), no CORS headers, and an empty body;
//     h is not called.
//   - Allowed preflight requests get a 204 (No Content) response with the
//     appropriate CORS headers and an empty body; h is not called.
//   - Allowed actual requests are passed on to h once the appropriate CORS
//     headers have been merged into the response.
func (p *Policy) Wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := p.Evaluate(r)
		if err != nil {
			p.reject(w, err)
			return
		}
		switch res.Kind() {
		case NonCORS:
			p.handleNonCORS(w.Header())
			h.ServeHTTP(w, r)
		case Preflight:
			res.Merge(w.Header())
			w.WriteHeader(preflightOKStatus)
		default:
			res.Merge(w.Header())
			h.ServeHTTP(w, r)
		}
	})
}

// A GuardedHandler responds to requests that a [Policy] allowed.
// It decides whether and when to merge res into its response
// (see [*Response.Merge]).
type GuardedHandler interface {
	ServeCORS(w http.ResponseWriter, r *http.Request, res *Response)
}

// The GuardedHandlerFunc type is an adapter to allow the use of ordinary
// functions as [GuardedHandler]s.
type GuardedHandlerFunc func(w http.ResponseWriter, r *http.Request, res *Response)

// ServeCORS calls f(w, r, res).
func (f GuardedHandlerFunc) ServeCORS(w http.ResponseWriter, r *http.Request, res *Response) {
	f(w, r, res)
}

// Guard returns a handler that evaluates requests against p and hands the
// allowed ones, along with their [*Response], over to h. Rejected requests
// are handled as in [*Policy.Wrap]. Contrary to Wrap, Guard does not answer
// preflight requests itself.
func (p *Policy) Guard(h GuardedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := p.Evaluate(r)
		if err != nil {
			p.reject(w, err)
			return
		}
		h.ServeCORS(w, r, res)
	})
}

// CatchAllOptions returns a handler meant to be registered for OPTIONS on
// every path of a router that dispatches on method, so that preflight
// requests get answered even for routes that don't handle OPTIONS.
// It answers all OPTIONS requests that p does not reject with a 204
// (No Content) response that carries the appropriate CORS headers.
func (p *Policy) CatchAllOptions() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := p.Evaluate(r)
		if err != nil {
			p.reject(w, err)
			return
		}
		if res.IsCORS() {
			res.Merge(w.Header())
		} else {
			p.handleNonCORS(w.Header())
		}
		w.WriteHeader(preflightOKStatus)
	})
}

func (p *Policy) handleNonCORS(resHdrs http.Header) {
	if !p.sendsWildcard() {
		// See https://fetch.spec.whatwg.org/#cors-protocol-and-http-caches.
		addVaryOrigin(resHdrs)
	}
}

// reject responds to a request that p rejected; Evaluate already logged it.
func (p *Policy) reject(w http.ResponseWriter, err error) {
	w.WriteHeader(statusOf(err))
}
