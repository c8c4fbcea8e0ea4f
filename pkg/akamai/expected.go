package akamai

import (
	"regexp"
)

// Kind tells how an Expected value is compared
type Kind int

const (
	// Literal compares for exact equality
	Literal Kind = iota
	// Pattern matches a regular expression
	Pattern
)

// Expected is an expected header or cookie value: either a literal string or
// a regular expression.
type Expected struct {
	kind    Kind
	literal string
	pattern *regexp.Regexp
}

// Equal expects exactly value
func Equal(value string) Expected {
	return Expected{kind: Literal, literal: value}
}

// Match expects a value matching re
func Match(re *regexp.Regexp) Expected {
	return Expected{kind: Pattern, pattern: re}
}

// MatchString compiles expr and expects a value matching it
func MatchString(expr string) (Expected, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Expected{}, err
	}
	return Match(re), nil
}

// MustMatch is like MatchString but panics if expr does not compile
func MustMatch(expr string) Expected {
	return Match(regexp.MustCompile(expr))
}

// Kind returns how the value is compared
func (e Expected) Kind() Kind {
	return e.kind
}

// Matches reports whether actual satisfies the expectation. An absent
// actual value never does.
func (e Expected) Matches(actual string, present bool) bool {
	if !present {
		return false
	}
	if e.kind == Pattern {
		return e.pattern != nil && e.pattern.MatchString(actual)
	}
	return actual == e.literal
}

// String renders literals as-is and patterns between slashes
func (e Expected) String() string {
	if e.kind == Pattern {
		if e.pattern == nil {
			return "//"
		}
		return "/" + e.pattern.String() + "/"
	}
	return e.literal
}
