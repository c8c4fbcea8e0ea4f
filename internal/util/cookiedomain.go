package util

import (
	"fmt"
	"strings"
)

// CookieDomain represents a cookie domain and helper functions on it
type CookieDomain struct {
	Domain       string
	SubDomain    string
	SubDomainLen int
}

// NewCookieDomain builds a CookieDomain. A leading dot, as sent in a
// Set-Cookie Domain attribute, is ignored and the domain is lowercased.
func NewCookieDomain(domain string) *CookieDomain {
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	return &CookieDomain{
		Domain:       domain,
		SubDomain:    fmt.Sprintf(".%s", domain),
		SubDomainLen: len(domain) + 1,
	}
}

// Match returns true if host matches the CookieDomain or is a subdomain of it
func (c CookieDomain) Match(host string) bool {
	// Remove port
	host = strings.ToLower(strings.Split(host, ":")[0])

	// Exact domain match?
	if host == c.Domain {
		return true
	}

	// Subdomain match?
	if len(host) >= c.SubDomainLen && host[len(host)-c.SubDomainLen:] == c.SubDomain {
		return true
	}

	return false
}
