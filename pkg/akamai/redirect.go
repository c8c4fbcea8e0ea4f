package akamai

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/mesosphere/akamai-assert/pkg/header"
)

var ghostServer = regexp.MustCompile(`AkamaiGHost|GHost`)

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func hasStatus(s Subject, status int) Result {
	return Result{
		Pass:           s.Status == status,
		Message:        fmt.Sprintf("expected status code %d but got %d", status, s.Status),
		NegatedMessage: fmt.Sprintf("expected status code not to be %d", status),
		Expected:       status,
		Actual:         s.Status,
	}
}

func servedByGHost(s Subject) Result {
	value, ok := header.Get(s.Header, HeaderServer)
	want := Match(ghostServer)
	return Result{
		Pass:           want.Matches(value, ok),
		Message:        fmt.Sprintf("expected header '%s' to match %s but got %s", HeaderServer, want, inspectValue(value, ok)),
		NegatedMessage: fmt.Sprintf("expected header '%s' not to match %s", HeaderServer, want),
		Expected:       want,
		Actual:         optional(value, ok),
	}
}

// locations returns the forms a redirect target can be matched in: as sent,
// resolved against base and as a request URI
func locations(raw string, base *url.URL) []string {
	forms := []string{raw}
	ref, err := url.Parse(raw)
	if err != nil {
		return forms
	}
	if base != nil {
		ref = base.ResolveReference(ref)
		forms = append(forms, ref.String())
	}
	if ref.IsAbs() {
		forms = append(forms, ref.RequestURI())
	}
	return forms
}

func matchesLocation(destination Expected, raw string, base *url.URL) bool {
	for _, form := range locations(raw, base) {
		if destination.Matches(form, true) {
			return true
		}
	}
	return false
}

// redirectsTo checks the followed redirects first, then the Location header
// of a redirect response
func redirectsTo(s Subject, destination Expected) Result {
	res := Result{
		NegatedMessage: fmt.Sprintf("expected not to redirect to %s", destination),
		Expected:       destination,
	}

	for _, r := range s.Redirects {
		if matchesLocation(destination, r, s.URL) {
			res.Pass = true
			res.Actual = r
			return res
		}
	}

	location, ok := header.Get(s.Header, "location")
	if ok && isRedirect(s.Status) && matchesLocation(destination, location, s.URL) {
		res.Pass = true
		res.Actual = location
		return res
	}

	if len(s.Redirects) > 0 {
		res.Actual = s.Redirects
		res.Message = fmt.Sprintf("expected redirect to %s but got %s", destination, inspect(s.Redirects))
	} else {
		res.Actual = optional(location, ok)
		res.Message = fmt.Sprintf("expected redirect to %s but got %s", destination, inspectValue(location, ok))
	}
	return res
}

// RedirectTo asserts that the subject is an Akamai edge redirect: it has the
// given status code, a Server header naming AkamaiGHost or GHost, and it
// redirects to destination. The first failing check is reported.
func RedirectTo(subject interface{}, status int, destination Expected) Result {
	s := Resolve(subject)
	for _, r := range []Result{hasStatus(s, status), servedByGHost(s), redirectsTo(s, destination)} {
		if !r.Pass {
			r.NegatedMessage = fmt.Sprintf("expected response not to be an Akamai %d redirect to %s", status, destination)
			return r
		}
	}

	return Result{
		Pass:           true,
		Message:        fmt.Sprintf("expected an Akamai %d redirect to %s", status, destination),
		NegatedMessage: fmt.Sprintf("expected response not to be an Akamai %d redirect to %s", status, destination),
		Expected:       destination,
		Actual:         s.Status,
	}
}
