package corspolicy

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/jub0bs/corspolicy/internal/methods"
	"github.com/jub0bs/corspolicy/internal/origins"
	"github.com/jub0bs/corspolicy/internal/util"
	"go.uber.org/zap"
)

// Options configures a [Policy]. The mechanics of and interplay between
// this type's various fields are explained below.
// Attempts to use settings described as "prohibited" result in a failure
// to build the desired policy.
//
// # AllowedOrigins
//
// AllowedOrigins specifies which [Web origins] the policy allows.
// Its zero value (also returned by [AllOrigins]) allows all origins;
// [SomeOrigins] and its variants restrict access to a set of origins:
//
//	AllowedOrigins: corspolicy.SomeOrigins(
//	  []string{"https://example.com"},
//	  []string{`^https://[a-z0-9-]+\.example\.com$`},
//	),
//
// See [OriginSet] for the rules that exact origins and regular expressions
// follow.
//
// Security considerations: by allowing Web origins in your server's CORS
// policy, you engage in a trust relationship with those origins.
// In particular, if you allow credentials, you should only allow Web
// origins that you absolutely trust.
//
// # AllowedMethods
//
// AllowedMethods specifies which methods preflight requests may ask for.
// If empty, the policy allows GET, HEAD, POST, OPTIONS, PUT, PATCH,
// and DELETE. Standard method names are case-insensitive and normalized
// to upper case; other method names are case-sensitive.
// Membership is strict: a preflight request for a method absent from the
// set fails, even if that method is [CORS-safelisted].
// Specifying invalid or [forbidden method names] is prohibited.
//
// # AllowedHeaders
//
// AllowedHeaders specifies which request headers preflight requests may
// ask for. Its zero value (also returned by [AllHeaders]) allows all
// request headers; [SomeHeaders] restricts them.
// Header names are case-insensitive.
// Specifying invalid or [forbidden request-header names] is prohibited;
// so is specifying the name of a CORS response header.
//
// # AllowCredentials
//
// AllowCredentials, when set, configures the policy to allow
// [credentialed access] (e.g. with [cookies]) in addition to anonymous
// access. Browsers reject credentialed responses that carry the wildcard
// origin; accordingly, setting both AllowCredentials and SendWildcard
// while allowing all origins is prohibited.
//
// # ExposeHeaders
//
// ExposeHeaders specifies which response headers browsers should expose
// to clients. Header names are case-insensitive.
// Specifying invalid or [forbidden response-header names] is prohibited;
// so is specifying header names that have no place in a response to an
// actual request (Origin, Access-Control-Request-Method, etc.).
//
// # MaxAgeInSeconds
//
// MaxAgeInSeconds configures the policy to instruct browsers to cache
// preflight responses for a duration no longer than the specified number of
// seconds. The zero value omits the Access-Control-Max-Age header, so that
// browsers fall back to their [default max-age value].
// To instruct browsers to eschew caching of preflight responses altogether,
// specify a value of -1. No other negative value is permitted.
// Because modern browsers [cap the max-age value], specifying a value
// larger than 86400 is prohibited.
//
// # SendWildcard
//
// SendWildcard, when set and if all origins are allowed, configures the
// policy to respond with the wildcard origin (*) rather than echo the
// request's origin. Responses then do not vary on Origin, which makes them
// more cacheable.
//
// # Logger and Observer
//
// Logger receives a Debug entry for every allowed CORS request and an Info
// entry for every rejected one. If nil, nothing is logged.
// Observer, if non-nil, is notified of the outcome of every evaluation;
// see package [github.com/jub0bs/corspolicy/corsmetrics].
//
// [CORS-safelisted]: https://fetch.spec.whatwg.org/#cors-safelisted-method
// [Web origins]: https://developer.mozilla.org/en-US/docs/Glossary/Origin
// [cap the max-age value]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds
// [cookies]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Cookies
// [credentialed access]: https://fetch.spec.whatwg.org/#concept-request-credentials-mode
// [default max-age value]: https://fetch.spec.whatwg.org/#http-access-control-max-age
// [forbidden method names]: https://fetch.spec.whatwg.org/#forbidden-method
// [forbidden request-header names]: https://fetch.spec.whatwg.org/#forbidden-request-header
// [forbidden response-header names]: https://fetch.spec.whatwg.org/#forbidden-response-header-name
type Options struct {
	// Precludes comparability, unkeyed struct literals, and conversion to and
	// from third-party types.
	_ [0]func()

	AllowedOrigins   AllowedOrigins `json:"allowed_origins"`
	AllowedMethods   []string       `json:"allowed_methods,omitempty"`
	AllowedHeaders   AllowedHeaders `json:"allowed_headers"`
	AllowCredentials bool           `json:"allow_credentials,omitempty"`
	ExposeHeaders    []string       `json:"expose_headers,omitempty"`
	MaxAgeInSeconds  int            `json:"max_age,omitempty"`
	SendWildcard     bool           `json:"send_wildcard,omitempty"`

	Logger   *zap.Logger `json:"-"`
	Observer Observer    `json:"-"`
}

// AllowedOrigins specifies which origins a [Policy] allows:
// either all origins (if Some is nil) or only those described by *Some.
type AllowedOrigins struct {
	Some *OriginSet `json:"some,omitempty"`
}

// An OriginSet describes a set of origins.
//
// Exact origins are parsed as URLs; requests are compared to their
// [ASCII serialization], in which the scheme and host are lower-cased,
// Unicode hosts are Punycode-encoded, default ports are elided, and any
// path is dropped:
//
//	https://example.com:443/some/path // allows https://example.com
//	https://аpple.com                 // allows https://xn--pple-43d.com
//
// Exact origins must use one of the http, https, ws, wss, and ftp schemes;
// other schemes (e.g. moz-extension) yield [opaque origins], which can only
// be allowed by a regular expression. Specifying "*" or "null" as an exact
// origin is prohibited; use [AllOrigins] or AllowNull instead.
//
// Regular expressions use the [RE2 syntax] and are not implicitly anchored.
// They are matched against the ASCII serialization of tuple origins and
// against the raw value of opaque origins.
//
// AllowNull allows the [null origin], which browsers send from sandboxed
// contexts, among others. Because that origin is shared by many unrelated
// contexts, allowing it is rarely a good idea.
//
// [ASCII serialization]: https://html.spec.whatwg.org/multipage/browsers.html#ascii-serialisation-of-an-origin
// [RE2 syntax]: https://github.com/google/re2/wiki/Syntax
// [null origin]: https://fetch.spec.whatwg.org/#append-a-request-origin-header
// [opaque origins]: https://html.spec.whatwg.org/multipage/browsers.html#concept-origin-opaque
type OriginSet struct {
	Exact     []string `json:"exact,omitempty"`
	Regex     []string `json:"regex,omitempty"`
	AllowNull bool     `json:"allow_null,omitempty"`
}

// AllOrigins allows all origins. It's equivalent to the zero value.
func AllOrigins() AllowedOrigins {
	return AllowedOrigins{}
}

// SomeOrigins allows the specified exact origins and the origins matched
// by the specified regular expressions.
func SomeOrigins(exact, regex []string) AllowedOrigins {
	return AllowedOrigins{Some: &OriginSet{Exact: exact, Regex: regex}}
}

// SomeExactOrigins allows the specified exact origins only.
func SomeExactOrigins(exact ...string) AllowedOrigins {
	return AllowedOrigins{Some: &OriginSet{Exact: exact}}
}

// SomeRegexOrigins allows the origins matched by the specified regular
// expressions only.
func SomeRegexOrigins(regex ...string) AllowedOrigins {
	return AllowedOrigins{Some: &OriginSet{Regex: regex}}
}

// SomeNullOrigins allows the null origin only.
func SomeNullOrigins() AllowedOrigins {
	return AllowedOrigins{Some: &OriginSet{AllowNull: true}}
}

// IsAll reports whether ao allows all origins.
func (ao AllowedOrigins) IsAll() bool {
	return ao.Some == nil
}

// AllowedHeaders specifies which request headers a [Policy] allows:
// either all of them (if Some is nil) or only those listed in *Some.
type AllowedHeaders struct {
	Some *HeaderSet `json:"some,omitempty"`
}

// A HeaderSet lists request-header names.
type HeaderSet struct {
	Names []string `json:"names,omitempty"`
}

// AllHeaders allows all request headers. It's equivalent to the zero value.
func AllHeaders() AllowedHeaders {
	return AllowedHeaders{}
}

// SomeHeaders allows the specified request headers only.
func SomeHeaders(names ...string) AllowedHeaders {
	return AllowedHeaders{Some: &HeaderSet{Names: names}}
}

// IsAll reports whether ah allows all request headers.
func (ah AllowedHeaders) IsAll() bool {
	return ah.Some == nil
}

const (
	// Current upper bounds:
	//  - Firefox: 86400 (24h)
	//  - Chromium: 7200 (2h)
	//  - WebKit/Safari: 600 (10m)
	//
	// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds.
	maxAgeUpperBound = 86400
	// sentinel value for disabling preflight caching
	maxAgeDisableCaching = -1
)

// NewPolicy validates opts and freezes them into a [Policy].
// If opts are invalid, it returns a nil [*Policy] and an error that joins
// every configuration error found.
// Otherwise, it returns a pointer to a Policy and a nil error.
//
// Mutating the fields of opts after NewPolicy has returned does not alter
// the resulting policy.
//
// If you need to programmatically handle the configuration errors constitutive
// of the resulting error, rely on package [github.com/jub0bs/corspolicy/cfgerrors].
func NewPolicy(opts Options) (*Policy, error) {
	p := Policy{
		credentials:  opts.AllowCredentials,
		sendWildcard: opts.SendWildcard,
		logger:       opts.Logger,
		observer:     opts.Observer,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	// Accumulate errors in a slice so as to call errors.Join at most once.
	errs := p.validateOrigins(opts.AllowedOrigins)
	errs = p.validateMethods(errs, opts.AllowedMethods)
	errs = p.validateHeaders(errs, opts.AllowedHeaders)
	errs = p.validateExposeHeaders(errs, opts.ExposeHeaders)
	errs = p.validateMaxAge(errs, opts.MaxAgeInSeconds)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &p, nil
}

func (p *Policy) validateOrigins(ao AllowedOrigins) []error {
	if ao.IsAll() {
		p.allOrigins = true
		if p.credentials && p.sendWildcard {
			return []error{new(cfgerrors.CredentialsWithWildcardOriginError)}
		}
		return nil
	}
	set := ao.Some
	if len(set.Exact) == 0 && len(set.Regex) == 0 && !set.AllowNull {
		err := &cfgerrors.UnacceptableOriginError{
			Reason: "missing",
		}
		return []error{err}
	}
	var errs []error
	for _, raw := range set.Exact {
		if raw == headers.ValueWildcard {
			if p.credentials {
				errs = append(errs, new(cfgerrors.CredentialsWithWildcardOriginError))
				continue
			}
			err := &cfgerrors.UnacceptableOriginError{
				Value:  raw,
				Reason: "prohibited",
			}
			errs = append(errs, err)
			continue
		}
		o, err := origins.Parse(raw)
		if err != nil {
			err := &cfgerrors.UnacceptableOriginError{
				Value:  raw,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		switch o.Kind {
		case origins.Null:
			err := &cfgerrors.UnacceptableOriginError{
				Value:  raw,
				Reason: "prohibited",
			}
			errs = append(errs, err)
			continue
		case origins.Opaque:
			err := &cfgerrors.UnacceptableOriginError{
				Value:  raw,
				Reason: "opaque",
			}
			errs = append(errs, err)
			continue
		}
		p.origins.AddExact(&o)
	}
	for _, expr := range set.Regex {
		re, err := regexp.Compile(expr)
		if err != nil {
			err := &cfgerrors.InvalidOriginRegexError{
				Value: expr,
				Err:   err,
			}
			errs = append(errs, err)
			continue
		}
		p.origins.AddRegexp(re)
	}
	if set.AllowNull {
		p.origins.AllowNull()
	}
	return errs
}

func (p *Policy) validateMethods(errs []error, names []string) []error {
	if len(names) == 0 {
		names = methods.Defaults
	}
	var allowed util.SortedSet
	for _, name := range names {
		if !methods.IsValid(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		if methods.IsForbidden(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "forbidden",
			}
			errs = append(errs, err)
			continue
		}
		allowed.Add(methods.Normalize(name))
	}
	p.methods = allowed
	// The elements of a header-field value may be separated simply by commas;
	// since whitespace is optional, let's not use any.
	p.acam = allowed.Join(headers.ValueSep)
	return errs
}

func (p *Policy) validateHeaders(errs []error, ah AllowedHeaders) []error {
	if ah.IsAll() {
		p.allHeaders = true
		return errs
	}
	for _, name := range ah.Some.Names {
		if !headers.IsValid(name) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "request",
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		// Fetch-compliant browsers byte-lowercase header names
		// before writing them to the ACRH header; see
		// https://fetch.spec.whatwg.org/#cors-unsafe-request-header-names,
		// step 6.
		normalized := util.ByteLowercase(name)
		if headers.IsForbiddenRequestHeaderName(normalized) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "request",
				Reason: "forbidden",
			}
			errs = append(errs, err)
			continue
		}
		if headers.IsResponseOnlyHeaderName(normalized) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "request",
				Reason: "prohibited",
			}
			errs = append(errs, err)
			continue
		}
		p.headers.Add(normalized)
	}
	return errs
}

func (p *Policy) validateExposeHeaders(errs []error, names []string) []error {
	for _, name := range names {
		if !headers.IsValid(name) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "response",
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		normalized := util.ByteLowercase(name)
		if headers.IsForbiddenResponseHeaderName(normalized) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "response",
				Reason: "forbidden",
			}
			errs = append(errs, err)
			continue
		}
		if headers.IsRequestOnlyHeaderName(normalized) {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Type:   "response",
				Reason: "prohibited",
			}
			errs = append(errs, err)
			continue
		}
		p.exposed.Add(normalized)
	}
	p.aceh = p.exposed.Join(headers.ValueSep)
	return errs
}

func (p *Policy) validateMaxAge(errs []error, delta int) []error {
	switch {
	case delta < maxAgeDisableCaching || maxAgeUpperBound < delta:
		err := &cfgerrors.MaxAgeOutOfBoundsError{
			Value:   delta,
			Max:     maxAgeUpperBound,
			Disable: maxAgeDisableCaching,
		}
		return append(errs, err)
	case delta == maxAgeDisableCaching:
		p.acma = "0"
	case delta > 0:
		p.acma = strconv.Itoa(delta)
	}
	p.maxAge = delta
	return errs
}

// Options returns a normalized copy of the options p was built from:
// header names are byte-lowercased, standard methods are upper-cased,
// exact origins are in ASCII serialized form, and lists are sorted and
// deduplicated (except regular expressions, whose order is preserved).
// The following statement is guaranteed to yield a policy equivalent to p:
//
//	corspolicy.NewPolicy(p.Options())
//
// Mutating the result does not alter p.
func (p *Policy) Options() Options {
	opts := Options{
		AllowedMethods:   p.methods.ToSlice(),
		AllowCredentials: p.credentials,
		ExposeHeaders:    p.exposed.ToSlice(),
		MaxAgeInSeconds:  p.maxAge,
		SendWildcard:     p.sendWildcard,
		Logger:           p.logger,
		Observer:         p.observer,
	}
	if !p.allOrigins {
		opts.AllowedOrigins = AllowedOrigins{
			Some: &OriginSet{
				Exact:     p.origins.Exact(),
				Regex:     p.origins.Regexps(),
				AllowNull: p.origins.NullAllowed(),
			},
		}
	}
	if !p.allHeaders {
		opts.AllowedHeaders = SomeHeaders(p.headers.ToSlice()...)
	}
	return opts
}
