package normalizer

import "strings"

// HostRule rewrites a host when Match reports true for its breakdown.
// Rules are evaluated in order and the first match wins, so a special case
// placed before WWWRule suppresses www insertion for its hosts.
type HostRule struct {
	Name    string
	Match   func(b HostBreakdown) bool
	Rewrite func(host string, b HostBreakdown) string
}

// DefaultHostRules returns the rules in precedence order.
func DefaultHostRules() []HostRule {
	return []HostRule{
		BlogspotRule(),
		WWWRule(),
	}
}

// BlogspotRule maps every blogspot.* host onto blogspot.com and drops a
// leading www label.
func BlogspotRule() HostRule {
	return HostRule{
		Name: "blogspot",
		Match: func(b HostBreakdown) bool {
			return b.Domain == "blogspot"
		},
		Rewrite: func(_ string, b HostBreakdown) string {
			sub := b.Subdomain
			if sub == "www" {
				sub = ""
			}
			sub = strings.TrimPrefix(sub, "www.")
			if sub == "" {
				return "blogspot.com"
			}
			return sub + ".blogspot.com"
		},
	}
}

// WWWRule prefixes bare registrable domains with www. Hosts that already
// carry a subdomain, www or otherwise, are left alone.
func WWWRule() HostRule {
	return HostRule{
		Name: "www",
		Match: func(b HostBreakdown) bool {
			return b.Subdomain == ""
		},
		Rewrite: func(host string, _ HostBreakdown) string {
			return "www." + host
		},
	}
}

func applyHostRules(rules []HostRule, host string, b HostBreakdown) string {
	for _, rule := range rules {
		if rule.Match(b) {
			return rule.Rewrite(host, b)
		}
	}
	return host
}
