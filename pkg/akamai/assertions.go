package akamai

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Assertions runs the matchers against a testify TestingT, reporting
// failures through assert.Fail
type Assertions struct {
	t assert.TestingT
}

// New makes a new Assertions object for the specified TestingT
func New(t assert.TestingT) *Assertions {
	return &Assertions{t: t}
}

type tHelper interface {
	Helper()
}

func (a *Assertions) report(r Result, negate bool, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}

	msg, failed := r.Failure(negate)
	if !failed {
		return true
	}
	if r.Expected != nil || r.Actual != nil {
		msg = fmt.Sprintf("%s\nexpected: %s\nactual  : %s", msg, inspect(r.Expected), inspect(r.Actual))
	}
	return assert.Fail(a.t, msg, msgAndArgs...)
}

// Cookie asserts that the subject carries cookie key
func (a *Assertions) Cookie(subject interface{}, key string, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(Cookie(subject, key), false, msgAndArgs...)
}

// NoCookie asserts that the subject does not carry cookie key
func (a *Assertions) NoCookie(subject interface{}, key string, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(Cookie(subject, key), true, msgAndArgs...)
}

// CookieValue asserts that cookie key equals or matches expected
func (a *Assertions) CookieValue(subject interface{}, key string, expected Expected, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(Cookie(subject, key, expected), false, msgAndArgs...)
}

// NotCookieValue asserts that cookie key neither equals nor matches expected
func (a *Assertions) NotCookieValue(subject interface{}, key string, expected Expected, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(Cookie(subject, key, expected), true, msgAndArgs...)
}

// Staging asserts that the response came from the Akamai staging network
func (a *Assertions) Staging(subject interface{}, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(Staging(subject), false, msgAndArgs...)
}

// NotStaging asserts that the response did not come from the Akamai staging
// network
func (a *Assertions) NotStaging(subject interface{}, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(Staging(subject), true, msgAndArgs...)
}

func (a *Assertions) variable(res Result, err error, negate bool, msgAndArgs ...interface{}) (string, bool) {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	if err != nil {
		return "", assert.Fail(a.t, err.Error(), msgAndArgs...)
	}

	passed := a.report(res, negate, msgAndArgs...)
	value, _ := res.Subject.(string)
	return value, passed
}

// Variable asserts that the session info header carries variable name and
// returns its value
func (a *Assertions) Variable(subject interface{}, name string, msgAndArgs ...interface{}) (string, bool) {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	res, err := Variable(subject, name)
	return a.variable(res, err, false, msgAndArgs...)
}

// NoVariable asserts that the session info header does not carry variable
// name. The header itself must be present.
func (a *Assertions) NoVariable(subject interface{}, name string, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	res, err := Variable(subject, name)
	_, passed := a.variable(res, err, true, msgAndArgs...)
	return passed
}

// VariableValue asserts that variable name equals or matches expected and
// returns its value
func (a *Assertions) VariableValue(subject interface{}, name string, expected Expected, msgAndArgs ...interface{}) (string, bool) {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	res, err := Variable(subject, name, expected)
	return a.variable(res, err, false, msgAndArgs...)
}

// NotVariableValue asserts that variable name neither equals nor matches
// expected
func (a *Assertions) NotVariableValue(subject interface{}, name string, expected Expected, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	res, err := Variable(subject, name, expected)
	_, passed := a.variable(res, err, true, msgAndArgs...)
	return passed
}

// CookieToken asserts that the subject carries cookie key and returns the
// token decoded from it, nil when the cookie is missing
func (a *Assertions) CookieToken(subject interface{}, key string, msgAndArgs ...interface{}) *Token {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	res := CookieToken(subject, key)
	a.report(res, false, msgAndArgs...)

	token, _ := res.Subject.(*Token)
	return token
}

// RedirectTo asserts that the subject is an Akamai edge redirect with the
// given status to destination
func (a *Assertions) RedirectTo(subject interface{}, status int, destination Expected, msgAndArgs ...interface{}) bool {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	return a.report(RedirectTo(subject, status, destination), false, msgAndArgs...)
}
