package normalizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const defaultScheme = "http"

// Normalizer turns candidate URLs into their canonical form. It holds no
// mutable state and is safe for concurrent use as long as its HostParser is.
type Normalizer struct {
	parser        HostParser
	defaultScheme string
	rules         []HostRule
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDefaultScheme sets the scheme assumed for candidates without one.
func WithDefaultScheme(scheme string) Option {
	return func(n *Normalizer) {
		if scheme = strings.TrimSpace(scheme); scheme != "" {
			n.defaultScheme = strings.ToLower(scheme)
		}
	}
}

// WithHostRules replaces the default host rules.
func WithHostRules(rules ...HostRule) Option {
	return func(n *Normalizer) {
		n.rules = rules
	}
}

// New returns a Normalizer that asks parser for host breakdowns.
func New(parser HostParser, opts ...Option) *Normalizer {
	n := &Normalizer{
		parser:        parser,
		defaultScheme: defaultScheme,
		rules:         DefaultHostRules(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the canonical form of candidate. The boolean is false
// when the candidate is not a usable URL.
func (n *Normalizer) Normalize(candidate string) (string, bool) {
	canonical, err := n.canonicalize(candidate)
	if err != nil {
		return "", false
	}
	return canonical, true
}

func (n *Normalizer) canonicalize(candidate string) (canonical string, err error) {
	defer func() {
		if r := recover(); r != nil {
			canonical, err = "", fmt.Errorf("%w: host parser panic: %v", ErrUnnormalizable, r)
		}
	}()

	p, err := parse(candidate, n.defaultScheme)
	if err != nil {
		return "", err
	}
	host, err := n.canonicalHost(p.host)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(candidate) + len("http://www."))
	b.WriteString(strings.ToLower(p.scheme))
	b.WriteString("://")
	if p.hasUserinfo {
		b.WriteString(p.userinfo)
		b.WriteByte('@')
	}
	b.WriteString(host)
	if p.port != "" {
		b.WriteByte(':')
		b.WriteString(p.port)
	}
	b.WriteString(normalizePath(p.path))
	b.WriteString(p.rest)
	return b.String(), nil
}

func (n *Normalizer) canonicalHost(raw string) (string, error) {
	host := strings.ToLower(raw)
	if isIPLiteral(host) {
		return host, nil
	}

	host, err := encodeHost(host)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(host, ".") {
		return "", fmt.Errorf("%w: host %q has no top-level domain", ErrUnnormalizable, host)
	}

	breakdown, err := n.parser.ParseHost(host)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnnormalizable, err)
	}
	return applyHostRules(n.rules, host, breakdown), nil
}

// encodeHost converts non-ASCII labels to punycode. ASCII labels, including
// ones that are already punycode, are kept as they are.
func encodeHost(host string) (string, error) {
	if isASCII(host) {
		return host, nil
	}
	labels := strings.Split(host, ".")
	for i, label := range labels {
		if isASCII(label) {
			continue
		}
		encoded, err := idna.Lookup.ToASCII(label)
		if err != nil {
			return "", fmt.Errorf("%w: idna: %v", ErrUnnormalizable, err)
		}
		labels[i] = encoded
	}
	return strings.Join(labels, "."), nil
}

// normalizePath turns an origin path ("", "/", "//") into "/" and strips
// trailing slashes from everything else.
func normalizePath(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
