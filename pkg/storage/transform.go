package storage

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// MerchantDomain extracts the registrable domain from a deal URL.
// e.g., "https://www.dealnews.com/products/foo" -> "dealnews.com", true
func MerchantDomain(dealURL string) (string, bool) {
	u, err := url.Parse(dealURL)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := u.Hostname()
	if !strings.Contains(host, ".") {
		return "", false
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return "", false
	}

	return domain, true
}
