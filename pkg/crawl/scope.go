package crawl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jpillora/go-tld"
	"github.com/rs/zerolog/log"
)

// Scope restricts the crawl frontier to the seed's registered domain, so
// subdomain hops (www, shop) stay crawlable while external links are never
// followed.
type Scope struct {
	registeredDomain string
	host             string
}

// NewScope derives the scope from the seed URL.
func NewScope(seedURL string) (Scope, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return Scope{}, fmt.Errorf("cannot derive scope from %q: %w", seedURL, err)
	}
	if u.Host == "" {
		return Scope{}, fmt.Errorf("cannot derive scope from %q: no host", seedURL)
	}
	s := Scope{host: strings.ToLower(u.Hostname())}
	if parsed, err := tld.Parse(seedURL); err == nil && parsed.TLD != "" && parsed.Domain != "" {
		s.registeredDomain = strings.ToLower(parsed.Domain + "." + parsed.TLD)
	}
	return s, nil
}

// IsInScope reports whether the URL shares the seed's registered domain.
// Hosts without a public suffix (IP literals, localhost) fall back to exact
// host comparison.
func (s Scope) IsInScope(rawURL string) bool {
	if s.registeredDomain != "" {
		parsed, err := tld.Parse(rawURL)
		if err != nil || parsed.TLD == "" || parsed.Domain == "" {
			log.Debug().Str("url", rawURL).Msg("Url to check if is in scope seems not valid")
			return false
		}
		return strings.ToLower(parsed.Domain+"."+parsed.TLD) == s.registeredDomain
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.ToLower(u.Hostname()) == s.host
}
