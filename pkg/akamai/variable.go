package akamai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mesosphere/akamai-assert/pkg/header"
)

var variableValue = regexp.MustCompile(`name=[^;]+;\s*value=([^;]*)`)

func variableName(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[\s;])name=` + regexp.QuoteMeta(name) + `(?:;|$)`)
}

// sessionRecords returns the records of the x-akamai-session-info header.
// A missing header is an error.
func sessionRecords(s Subject) ([]string, error) {
	raw, ok := header.Joined(s.Header, HeaderSessionInfo)
	if !ok {
		return nil, MissingHeaderError(HeaderSessionInfo)
	}
	return strings.Split(raw, ","), nil
}

// findVariable returns the first record carrying variable name
func findVariable(records []string, name string) (string, bool) {
	pattern := variableName(name)
	for _, record := range records {
		if pattern.MatchString(record) {
			return record, true
		}
	}
	return "", false
}

// extractValue returns the value attribute of a variable record
func extractValue(record string, found bool) (string, bool) {
	if !found {
		return "", false
	}
	m := variableValue.FindStringSubmatch(record)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Variable asserts that the x-akamai-session-info header carries variable
// name. With an expected value the variable value must also equal or match
// it. The extracted value is returned as the result's Subject, nil when
// absent.
//
// The header must be present: a missing header is returned as an error
// rather than a failed Result.
func Variable(subject interface{}, name string, expected ...Expected) (Result, error) {
	records, err := sessionRecords(Resolve(subject))
	if err != nil {
		return Result{}, err
	}

	record, found := findVariable(records, name)
	value, ok := extractValue(record, found)

	exists := Result{
		Pass:           found,
		Message:        fmt.Sprintf("expected variable '%s' to exist", name),
		NegatedMessage: fmt.Sprintf("expected variable '%s' to not exist", name),
		Actual:         optional(value, ok),
		Subject:        optional(value, ok),
	}
	if len(expected) == 0 || !found {
		return exists, nil
	}

	want := expected[0]
	got := inspectValue(value, ok)
	res := Result{
		Pass:     want.Matches(value, ok),
		Expected: want,
		Actual:   optional(value, ok),
		Subject:  optional(value, ok),
	}
	if want.Kind() == Pattern {
		res.Message = fmt.Sprintf("expected variable '%s' to match %s but got %s", name, want, got)
		res.NegatedMessage = fmt.Sprintf("expected variable '%s' not to match %s but got %s", name, want, got)
	} else {
		res.Message = fmt.Sprintf("expected variable '%s' to have value %s but got %s", name, want, got)
		res.NegatedMessage = fmt.Sprintf("expected variable '%s' to not have value %s", name, want)
	}
	return res, nil
}

// SessionVariables returns every variable of the x-akamai-session-info
// header. Later records overwrite earlier ones with the same name.
func SessionVariables(subject interface{}) (map[string]string, error) {
	records, err := sessionRecords(Resolve(subject))
	if err != nil {
		return nil, err
	}

	vars := make(map[string]string, len(records))
	for _, record := range records {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		var name, value string
		for _, attr := range strings.Split(record, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(attr), "=")
			if !ok {
				continue
			}
			switch k {
			case "name":
				name = v
			case "value":
				value = v
			}
		}
		if name != "" {
			vars[name] = value
		}
	}
	return vars, nil
}
