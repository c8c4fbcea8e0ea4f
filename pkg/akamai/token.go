package akamai

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Token is an Akamai edge authorization token carried in a cookie value as
// a '~' separated list of key=value attributes, e.g.
// "exp=1600000000~acl=/*~data=abc~hash=0a1b".
type Token struct {
	// Name is the cookie the token was read from
	Name string

	// Exp is the expiry in Unix seconds. ExpValid is false when the exp
	// attribute is missing or not a number.
	Exp      int64
	ExpValid bool

	Data string
	Hash string

	// Attrs holds every decoded attribute
	Attrs map[string]string
}

// ParseToken decodes a token cookie value. Attributes without a '=' or with
// an empty key are dropped, later duplicates overwrite earlier ones, and
// values are URL-decoded. Missing or malformed attributes never fail the
// parse: they leave the matching field empty.
func ParseToken(name, value string) *Token {
	attrs := make(map[string]string)
	for _, part := range strings.Split(value, "~") {
		k, v, ok := strings.Cut(part, "=")
		if !ok || k == "" {
			continue
		}

		decoded, err := url.PathUnescape(v)
		if err != nil {
			log.WithFields(logrus.Fields{
				"cookie":    name,
				"attribute": k,
				"error":     err,
			}).Debug("Keeping undecodable token attribute as is")
			decoded = v
		}
		attrs[k] = decoded
	}

	t := &Token{
		Name:  name,
		Data:  attrs["data"],
		Hash:  attrs["hash"],
		Attrs: attrs,
	}
	t.Exp, t.ExpValid = parseLeadingInt(attrs["exp"])
	return t
}

// Expires returns the expiry time, false when the token has no valid expiry
func (t *Token) Expires() (time.Time, bool) {
	if !t.ExpValid {
		return time.Time{}, false
	}
	return time.Unix(t.Exp, 0), true
}

// Expired reports whether the token expiry is before now. A token without a
// valid expiry is treated as expired.
func (t *Token) Expired(now time.Time) bool {
	exp, ok := t.Expires()
	return !ok || exp.Before(now)
}

// parseLeadingInt parses the optionally signed decimal prefix of s, ignoring
// leading whitespace and anything after the digits
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CookieToken asserts that the subject carries cookie key and decodes its
// value as a Token, returned as the result's Subject. The token fields are
// not asserted on.
func CookieToken(subject interface{}, key string) Result {
	l := lookupCookie(Resolve(subject), key)
	res := cookieExists(key, l)

	if value, ok := l.value(); ok {
		res.Subject = ParseToken(key, value)
	}
	return res
}
