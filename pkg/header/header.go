// Package header resolves the objects under assertion into a uniform,
// case-insensitive header lookup.
package header

import (
	"net/http"
	"net/http/httptest"
	"strings"
)

// Source exposes header values by name. A missing header yields no values.
type Source interface {
	Values(name string) []string
}

// GetterFunc adapts a header getter into a Source. The name handed to the
// getter is always lowercase.
type GetterFunc func(name string) []string

// Values implements Source
func (f GetterFunc) Values(name string) []string {
	return f(strings.ToLower(name))
}

// Getter returns a Source backed by an http.Header
func Getter(h http.Header) Source {
	return GetterFunc(h.Values)
}

// Map is a direct mapping from lowercase header name to its values
type Map map[string][]string

// NewMap builds a Map from single-valued headers
func NewMap(m map[string]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		name := strings.ToLower(k)
		out[name] = append(out[name], v)
	}
	return out
}

// NewMultiMap builds a Map from multi-valued headers
func NewMultiMap(m map[string][]string) Map {
	out := make(Map, len(m))
	for k, v := range m {
		name := strings.ToLower(k)
		out[name] = append(out[name], v...)
	}
	return out
}

// Values implements Source
func (m Map) Values(name string) []string {
	return m[strings.ToLower(name)]
}

// headerer is anything exposing its headers through a Header() getter,
// e.g. http.ResponseWriter implementations.
type headerer interface {
	Header() http.Header
}

// For resolves v into a Source. The second return value is false when v
// exposes neither a header getter nor a header mapping.
func For(v interface{}) (Source, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case *http.Request:
		if s == nil {
			return nil, false
		}
		return Getter(s.Header), true
	case *http.Response:
		if s == nil {
			return nil, false
		}
		return Getter(s.Header), true
	case *httptest.ResponseRecorder:
		if s == nil {
			return nil, false
		}
		return Getter(s.Result().Header), true
	case http.Header:
		return Getter(s), true
	case Source:
		return s, true
	case map[string]string:
		return NewMap(s), true
	case map[string][]string:
		return NewMultiMap(s), true
	case headerer:
		return Getter(s.Header()), true
	}
	return nil, false
}

// Get returns the first value of the named header
func Get(src Source, name string) (string, bool) {
	values := All(src, name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Joined returns every value of the named header joined with ", ", the way
// repeated headers are folded into one.
func Joined(src Source, name string) (string, bool) {
	values := All(src, name)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ", "), true
}

// All returns every value of the named header
func All(src Source, name string) []string {
	if src == nil {
		return nil
	}
	return src.Values(strings.ToLower(name))
}
