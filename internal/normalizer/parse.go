package normalizer

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// parsedURL holds views over the raw candidate. Nothing is unescaped or
// re-encoded, so case and percent-encoding survive reassembly untouched.
type parsedURL struct {
	scheme   string
	userinfo string
	host     string
	port     string
	path     string
	rest     string // query and fragment, including the leading '?' or '#'

	hasUserinfo bool
}

func parse(raw, defaultScheme string) (*parsedURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty candidate", ErrUnnormalizable)
	}
	if strings.IndexFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) != -1 {
		return nil, fmt.Errorf("%w: candidate contains whitespace", ErrUnnormalizable)
	}
	if !schemePattern.MatchString(raw) {
		raw = defaultScheme + "://" + raw
	}
	if _, err := url.Parse(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnnormalizable, err)
	}

	sep := strings.Index(raw, "://")
	p := &parsedURL{scheme: raw[:sep]}

	rest := raw[sep+3:]
	end := strings.IndexAny(rest, "/?#")
	if end == -1 {
		end = len(rest)
	}
	authority, tail := rest[:end], rest[end:]

	if at := strings.LastIndexByte(authority, '@'); at != -1 {
		p.userinfo = authority[:at]
		p.hasUserinfo = true
		authority = authority[at+1:]
	}
	p.host, p.port = splitHostPort(authority)
	if p.host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrUnnormalizable)
	}

	if q := strings.IndexAny(tail, "?#"); q != -1 {
		p.path, p.rest = tail[:q], tail[q:]
	} else {
		p.path = tail
	}
	return p, nil
}

// splitHostPort splits an authority without userinfo. Unlike
// net.SplitHostPort it accepts a missing port and keeps IPv6 brackets.
func splitHostPort(authority string) (host, port string) {
	if strings.HasPrefix(authority, "[") {
		closing := strings.LastIndexByte(authority, ']')
		if closing == -1 {
			return authority, ""
		}
		host = authority[:closing+1]
		return host, strings.TrimPrefix(authority[closing+1:], ":")
	}
	if i := strings.LastIndexByte(authority, ':'); i != -1 {
		return authority[:i], authority[i+1:]
	}
	return authority, ""
}

func isIPLiteral(host string) bool {
	if strings.HasPrefix(host, "[") {
		return true
	}
	return net.ParseIP(host) != nil
}
