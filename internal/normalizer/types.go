package normalizer

import "errors"

// ErrUnnormalizable is returned for candidates that cannot be turned into a
// canonical URL: syntax errors, empty hosts and hosts without a usable TLD.
var ErrUnnormalizable = errors.New("unnormalizable url")

// HostBreakdown splits a host into its subdomain, registrable domain and
// public suffix. When Subdomain is set, Subdomain.Domain.Suffix equals the
// host it was derived from.
type HostBreakdown struct {
	Subdomain string
	Domain    string
	Suffix    string
}

// HostParser breaks a lowercased, ASCII (punycode) host into its parts.
type HostParser interface {
	ParseHost(host string) (HostBreakdown, error)
}

// Extractor scans free text for candidate URLs. Multiple inputs are scanned
// one after another and the candidates are returned in encounter order.
// Empty input yields an empty slice.
type Extractor interface {
	Extract(inputs ...string) []string
}

// Recorder observes batch outcomes.
type Recorder interface {
	RecordCandidate(normalized bool)
	RecordBatch(stats Stats)
}
