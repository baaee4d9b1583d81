// Package domains splits host names into subdomain, registrable domain and
// public suffix.
package domains

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"urlcanon/internal/normalizer"
)

// ErrNoRegistrableDomain is returned for hosts that consist of a public
// suffix only, such as "com" or "co.uk".
var ErrNoRegistrableDomain = errors.New("host has no registrable domain")

// ErrUnknownSuffix is returned when the top-level label is not on the list.
var ErrUnknownSuffix = errors.New("unknown public suffix")

// LookupFunc reports the public suffix of a domain and whether it is an
// ICANN managed suffix. publicsuffix.PublicSuffix is the default.
type LookupFunc func(domain string) (suffix string, icann bool)

// PublicSuffixParser implements normalizer.HostParser on top of a public
// suffix list.
type PublicSuffixParser struct {
	lookup         LookupFunc
	includePrivate bool
	allowUnknown   bool
}

// Option configures a PublicSuffixParser.
type Option func(*PublicSuffixParser)

// WithLookup replaces the public suffix list lookup.
func WithLookup(fn LookupFunc) Option {
	return func(p *PublicSuffixParser) {
		if fn != nil {
			p.lookup = fn
		}
	}
}

// WithPrivateSuffixes makes privately registered suffixes such as
// blogspot.com count as public suffixes. They are ignored by default, which
// keeps "blogspot" visible as the registrable domain.
func WithPrivateSuffixes(include bool) Option {
	return func(p *PublicSuffixParser) {
		p.includePrivate = include
	}
}

// WithUnknownSuffixes accepts top-level labels that are not on the list,
// treating them as single label suffixes.
func WithUnknownSuffixes(allow bool) Option {
	return func(p *PublicSuffixParser) {
		p.allowUnknown = allow
	}
}

// NewPublicSuffixParser returns a parser backed by the public suffix list
// compiled into golang.org/x/net/publicsuffix.
func NewPublicSuffixParser(opts ...Option) *PublicSuffixParser {
	p := &PublicSuffixParser{lookup: publicsuffix.PublicSuffix}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseHost implements normalizer.HostParser. The host must already be
// lowercased and in ASCII form.
func (p *PublicSuffixParser) ParseHost(host string) (normalizer.HostBreakdown, error) {
	if host == "" {
		return normalizer.HostBreakdown{}, errors.New("empty host")
	}
	suffix, listed := p.suffix(host)
	if suffix == "" {
		return normalizer.HostBreakdown{}, fmt.Errorf("no public suffix in %q", host)
	}
	if !listed && !p.allowUnknown {
		return normalizer.HostBreakdown{}, fmt.Errorf("%w: %q", ErrUnknownSuffix, suffix)
	}
	if len(suffix) >= len(host) || host[len(host)-len(suffix)-1] != '.' {
		return normalizer.HostBreakdown{}, fmt.Errorf("%w: %q", ErrNoRegistrableDomain, host)
	}

	rest := host[:len(host)-len(suffix)-1]
	b := normalizer.HostBreakdown{Domain: rest, Suffix: suffix}
	if i := strings.LastIndexByte(rest, '.'); i != -1 {
		b.Subdomain = rest[:i]
		b.Domain = rest[i+1:]
	}
	return b, nil
}

// suffix returns the public suffix of host and whether its top-level label
// is on the list at all. Private matches are walked back to the ICANN
// suffix underneath them, e.g. blogspot.co.uk to co.uk; the private match
// is only returned when private suffixes are included.
func (p *PublicSuffixParser) suffix(host string) (string, bool) {
	matched, icann := p.lookup(host)
	suffix := matched
	for !icann {
		dot := strings.IndexByte(suffix, '.')
		if dot == -1 {
			return suffix, false
		}
		suffix, icann = p.lookup(suffix[dot+1:])
	}
	if p.includePrivate {
		return matched, true
	}
	return suffix, true
}
