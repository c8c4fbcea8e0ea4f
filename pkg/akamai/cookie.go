package akamai

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mesosphere/akamai-assert/pkg/cookies"
	"github.com/mesosphere/akamai-assert/pkg/header"
)

// cookieLookup is a cookie looked up on a subject along with the raw header
// text it came from
type cookieLookup struct {
	raw    []string
	cookie *http.Cookie
}

func (l cookieLookup) value() (string, bool) {
	if l.cookie == nil {
		return "", false
	}
	return l.cookie.Value, true
}

// lookupCookie reads the set-cookie header of a response, falling back to
// the cookie header of a request. A persistent client's own jar wins over
// the header text.
func lookupCookie(s Subject, key string) cookieLookup {
	var l cookieLookup

	l.raw = header.All(s.Header, "set-cookie")
	if len(l.raw) == 0 {
		l.raw = cookies.SplitCookieHeader(strings.Join(header.All(s.Header, "cookie"), ";"))
	}

	var jar cookies.Jar
	if s.Jar != nil {
		jar = s.Jar
	} else {
		mem := cookies.NewMemoryJar()
		mem.Ingest(l.raw...)
		jar = mem
	}

	l.cookie, _ = jar.Cookie(key, cookies.All)

	log.WithFields(logrus.Fields{
		"cookie":     key,
		"found":      l.cookie != nil,
		"persistent": s.Jar != nil,
	}).Debug("Looked up cookie")

	return l
}

func cookieExists(key string, l cookieLookup) Result {
	value, ok := l.value()
	return Result{
		Pass:           ok,
		Message:        fmt.Sprintf("expected cookie '%s' to exist", key),
		NegatedMessage: fmt.Sprintf("expected cookie '%s' to not exist", key),
		Actual:         optional(value, ok),
	}
}

// Cookie asserts that the subject carries cookie key. With an expected value
// the cookie value must also equal or match it.
func Cookie(subject interface{}, key string, expected ...Expected) Result {
	l := lookupCookie(Resolve(subject), key)
	if len(expected) == 0 {
		return cookieExists(key, l)
	}

	want := expected[0]
	value, ok := l.value()
	got := inspectValue(value, ok)

	if want.Kind() == Pattern {
		return Result{
			Pass:           want.Matches(value, ok),
			Message:        fmt.Sprintf("expected cookie '%s' to match %s but got %s", key, want, got),
			NegatedMessage: fmt.Sprintf("expected cookie '%s' not to match %s but got %s", key, want, got),
			Expected:       want,
			Actual:         l.raw,
		}
	}

	return Result{
		Pass:           want.Matches(value, ok),
		Message:        fmt.Sprintf("expected cookie '%s' to have value %s but got %s", key, want, got),
		NegatedMessage: fmt.Sprintf("expected cookie '%s' to not have value %s", key, want),
		Expected:       want,
		Actual:         optional(value, ok),
	}
}
