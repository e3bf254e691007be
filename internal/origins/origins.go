// Package origins parses [Web origins] and matches them against the set of
// origins that a CORS policy allows.
//
// [Web origins]: https://developer.mozilla.org/en-US/docs/Glossary/Origin
package origins

import (
	"errors"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/jub0bs/corspolicy/internal/util"
	"golang.org/x/net/idna"
)

const (
	schemeHostSep = "://" // scheme-host separator
	hostPortSep   = ":"   // host-port separator

	// maxLen bounds the length of the values that Parse accepts.
	// Opaque origins (e.g. moz-extension://...) tend to be longer than
	// tuple origins, hence the generous value.
	maxLen = 2048
)

// Kind represents the kind of an origin.
type Kind uint8

const (
	Tuple  Kind = iota // scheme, host, and port
	Opaque             // origin of a non-special scheme
	Null               // the "null" origin
)

// Origin represents a parsed origin.
// The zero value does not correspond to a valid origin.
type Origin struct {
	Kind Kind
	// Scheme is the origin's scheme, in lower case.
	Scheme string
	// Host is the origin's host, in ASCII form: domains are lower-cased and
	// Punycode-encoded; IPv6 addresses are bracketed and compressed.
	Host string
	// Port is the origin's explicit port, if any.
	// The zero value marks either the absence of a port or the scheme's
	// default port.
	Port int
	raw  string // only set for opaque origins
}

var (
	ErrTooLong     = errors.New("origin too long")
	ErrNotUTF8     = errors.New("origin is not valid UTF-8")
	ErrNotAbsolute = errors.New("origin is not an absolute URL")
	ErrMissingHost = errors.New("origin has no host")
	ErrInvalidHost = errors.New("origin has an invalid host")
	ErrInvalidPort = errors.New("origin has an invalid port")
)

// profile is a lenient IDNA profile: contrary to [idna.Lookup],
// it tolerates underscores in DNS labels.
var profile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
)

// defaultPorts maps the schemes of tuple origins to their default port.
var defaultPorts = map[string]int{
	"ftp":   21,
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
}

// Parse parses str into an [Origin].
// Any path, query, fragment, or userinfo component in str is ignored.
// The value "null" (compared case-insensitively) yields a Null origin.
// Values whose scheme is none of ftp, http, https, ws, and wss yield
// Opaque origins, which are only ever represented by str itself.
func Parse(str string) (Origin, error) {
	if len(str) > maxLen {
		return Origin{}, ErrTooLong
	}
	if !utf8.ValidString(str) {
		return Origin{}, ErrNotUTF8
	}
	if util.ByteLowercase(str) == headers.ValueNull {
		return Origin{Kind: Null}, nil
	}
	u, err := url.Parse(str)
	if err != nil {
		return Origin{}, err
	}
	if u.Scheme == "" {
		return Origin{}, ErrNotAbsolute
	}
	defaultPort, special := defaultPorts[u.Scheme]
	if !special {
		o := Origin{
			Kind:   Opaque,
			Scheme: u.Scheme,
			raw:    str,
		}
		return o, nil
	}
	if u.Opaque != "" || u.Host == "" {
		return Origin{}, ErrMissingHost
	}
	host, err := normalizeHost(u.Hostname())
	if err != nil {
		return Origin{}, err
	}
	port, err := parsePort(u.Port())
	if err != nil {
		return Origin{}, err
	}
	if port == defaultPort {
		port = 0
	}
	o := Origin{
		Kind:   Tuple,
		Scheme: u.Scheme,
		Host:   host,
		Port:   port,
	}
	return o, nil
}

func normalizeHost(host string) (string, error) {
	if host == "" {
		return "", ErrMissingHost
	}
	if strings.Contains(host, hostPortSep) { // IPv6, brackets already stripped
		addr, err := netip.ParseAddr(host)
		if err != nil || !addr.Is6() || addr.Zone() != "" {
			return "", ErrInvalidHost
		}
		return "[" + addr.String() + "]", nil
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.String(), nil
	}
	ascii, err := profile.ToASCII(host)
	if err != nil || ascii == "" {
		return "", ErrInvalidHost
	}
	return ascii, nil
}

func parsePort(str string) (int, error) {
	if str == "" {
		return 0, nil
	}
	// Serialized origins never carry a port with a leading zero, and
	// port 0 must not be confused with the absence of a port.
	if !isNonZeroDigit(str[0]) {
		return 0, ErrInvalidPort
	}
	port, err := strconv.Atoi(str)
	if err != nil || port > 1<<16-1 {
		return 0, ErrInvalidPort
	}
	return port, nil
}

func isNonZeroDigit(b byte) bool {
	return '1' <= b && b <= '9'
}

// String returns the [ASCII serialization] of o.
// For opaque origins, it returns the raw value they were parsed from.
//
// [ASCII serialization]: https://html.spec.whatwg.org/multipage/browsers.html#ascii-serialisation-of-an-origin
func (o *Origin) String() string {
	switch o.Kind {
	case Null:
		return headers.ValueNull
	case Opaque:
		return o.raw
	}
	var sb strings.Builder
	sb.WriteString(o.Scheme)
	sb.WriteString(schemeHostSep)
	sb.WriteString(o.Host)
	if o.Port != 0 {
		sb.WriteString(hostPortSep)
		sb.WriteString(strconv.Itoa(o.Port))
	}
	return sb.String()
}
