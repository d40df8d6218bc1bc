package tenant

import (
	"strings"
)

// NormalizeDomain reduces what a widget sends (a bare host, an origin or a
// full URL) to a lower-case host name without "www." or port.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndex(d, "@"); i >= 0 {
		d = d[i+1:]
	}
	if i := strings.LastIndex(d, ":"); i >= 0 && !strings.Contains(d[:i], ":") {
		d = d[:i]
	}
	d = strings.TrimSuffix(d, ".")
	d = strings.TrimPrefix(d, "www.")
	return d
}

// CandidateDomains lists the lookup keys for a normalized domain, most
// specific first: "shop.eu.acme.com" gives itself, "eu.acme.com" and
// "acme.com". Single-label parents are never tried.
func CandidateDomains(domain string) []string {
	if domain == "" {
		return nil
	}
	candidates := []string{domain}
	labels := strings.Split(domain, ".")
	for i := 1; i < len(labels)-1; i++ {
		candidates = append(candidates, strings.Join(labels[i:], "."))
	}
	return candidates
}
