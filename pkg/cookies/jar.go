// Package cookies holds the cookie jars the matchers look cookies up in:
// a transient jar built from raw header text and a persistent Agent that
// accumulates cookies across requests.
package cookies

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var errInvalidFragment = errors.New("cookie fragment has no name")

// Jar looks a cookie up by name
type Jar interface {
	Cookie(name string, access AccessInfo) (*http.Cookie, bool)
}

// MemoryJar is a transient jar built from raw Set-Cookie style fragments
type MemoryJar struct {
	cookies []*http.Cookie
	now     func() time.Time
}

// NewMemoryJar creates an empty MemoryJar
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{now: time.Now}
}

// Ingest parses every fragment as a Set-Cookie line and stores the result.
// Values net/http refuses, such as JSON or backslashes, are kept verbatim.
// Fragments without a name are skipped. It returns the number of cookies
// stored.
func (j *MemoryJar) Ingest(fragments ...string) int {
	stored := 0
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		c, err := http.ParseSetCookie(fragment)
		if err != nil {
			c, err = parseLenient(fragment)
		}
		if err != nil {
			log.WithFields(logrus.Fields{
				"fragment": fragment,
				"error":    err,
			}).Debug("Skipping unparseable cookie fragment")
			continue
		}

		j.Add(c)
		stored++
	}
	return stored
}

// Add stores c, replacing a cookie with the same name, domain and path
func (j *MemoryJar) Add(c *http.Cookie) {
	for i, existing := range j.cookies {
		if existing.Name == c.Name &&
			strings.EqualFold(existing.Domain, c.Domain) &&
			existing.Path == c.Path {
			j.cookies[i] = c
			return
		}
	}
	j.cookies = append(j.cookies, c)
}

// Cookie returns the first live cookie named name visible under access
func (j *MemoryJar) Cookie(name string, access AccessInfo) (*http.Cookie, bool) {
	now := j.now()
	for _, c := range j.cookies {
		if c.Name != name || expired(c, now) || !access.Allows(c) {
			continue
		}
		return c, true
	}
	return nil, false
}

// Cookies returns every live cookie in the jar
func (j *MemoryJar) Cookies() []*http.Cookie {
	now := j.now()
	var live []*http.Cookie
	for _, c := range j.cookies {
		if !expired(c, now) {
			live = append(live, c)
		}
	}
	return live
}

// parseLenient splits fragment on the first '=' and keeps the value as is.
// Attributes after the first ';' are still parsed by net/http.
func parseLenient(fragment string) (*http.Cookie, error) {
	pair, attrs, _ := strings.Cut(fragment, ";")
	name, value, ok := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, errInvalidFragment
	}

	c := &http.Cookie{Name: name}
	if attrs != "" {
		if parsed, err := http.ParseSetCookie(name + "=x;" + attrs); err == nil {
			c = parsed
		}
	}
	c.Value = strings.TrimRight(value, " \t")
	c.Raw = fragment
	return c, nil
}

func expired(c *http.Cookie, now time.Time) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// SplitCookieHeader splits a request Cookie header on ';' into name=value
// fragments
func SplitCookieHeader(cookie string) []string {
	if cookie == "" {
		return nil
	}
	return strings.Split(cookie, ";")
}
