package cookies

import (
	"net/http"
	"strings"

	"github.com/mesosphere/akamai-assert/internal/util"
)

// AccessInfo describes the context a cookie is read from. An empty Domain or
// Path matches any cookie domain or path. Secure cookies are only visible to
// Secure access and HttpOnly cookies are hidden from Script access.
type AccessInfo struct {
	Domain string
	Path   string
	Secure bool
	Script bool
}

// All is the most permissive access: every cookie is visible
var All = AccessInfo{Secure: true}

// Allows returns true if the cookie is visible under this access info
func (a AccessInfo) Allows(c *http.Cookie) bool {
	if c.Secure && !a.Secure {
		return false
	}
	if c.HttpOnly && a.Script {
		return false
	}
	if a.Domain != "" && c.Domain != "" && !util.NewCookieDomain(c.Domain).Match(a.Domain) {
		return false
	}
	if a.Path != "" && c.Path != "" && !pathMatch(a.Path, c.Path) {
		return false
	}
	return true
}

// pathMatch implements the RFC 6265 section 5.1.4 path-match
func pathMatch(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}
