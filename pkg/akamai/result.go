package akamai

import (
	"fmt"
	"strings"
)

// Result is the outcome of a single matcher call. Message describes a failed
// positive assertion and NegatedMessage a failed negated one. Subject carries
// the value derived by the matcher, if any, for further assertions.
type Result struct {
	Pass           bool
	Message        string
	NegatedMessage string
	Expected       interface{}
	Actual         interface{}
	Subject        interface{}
}

// Failure returns the failure message for the assertion, negated or not, and
// whether the assertion failed
func (r Result) Failure(negate bool) (string, bool) {
	if r.Pass != negate {
		return "", false
	}
	if negate {
		return r.NegatedMessage, true
	}
	return r.Message, true
}

// inspect renders a value for failure messages
func inspect(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", t)
	case []string:
		quoted := make([]string, len(t))
		for i, s := range t {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprintf("%#v", v)
}

// inspectValue renders an optional string
func inspectValue(value string, present bool) string {
	if !present {
		return inspect(nil)
	}
	return inspect(value)
}

// optional turns an optional string into an interface value, nil when absent
func optional(value string, present bool) interface{} {
	if !present {
		return nil
	}
	return value
}
