// Package extract finds candidate URLs in free text.
package extract

import (
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

// opaqueScheme matches schemes without an authority part, e.g. "mailto:".
// A host followed by a port ("twingly.com:8080") does not match.
var opaqueScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:[^/0-9]`)

// URLExtractor scans text for web URLs, with or without a scheme.
type URLExtractor struct {
	re *regexp.Regexp
}

// New returns a URLExtractor using the relaxed xurls matcher.
func New() *URLExtractor {
	return &URLExtractor{re: xurls.Relaxed()}
}

// Extract returns the URLs found in inputs, scanning them one after another.
// It never returns nil.
func (e *URLExtractor) Extract(inputs ...string) []string {
	candidates := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		for _, match := range e.re.FindAllString(input, -1) {
			if !isWebCandidate(match) {
				continue
			}
			candidates = append(candidates, match)
		}
	}
	return candidates
}

func isWebCandidate(match string) bool {
	if strings.Contains(match, "://") {
		return true
	}
	// Bare e-mail addresses and mailto:, tel:, magnet: and friends.
	if strings.Contains(match, "@") {
		return false
	}
	return !opaqueScheme.MatchString(match)
}

// LineExtractor treats every non-blank line of its inputs as one candidate,
// for inputs that are already lists of URLs.
type LineExtractor struct{}

// Lines returns a LineExtractor.
func Lines() LineExtractor {
	return LineExtractor{}
}

func (LineExtractor) Extract(inputs ...string) []string {
	candidates := make([]string, 0, len(inputs))
	for _, input := range inputs {
		for _, line := range strings.Split(input, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				candidates = append(candidates, line)
			}
		}
	}
	return candidates
}
