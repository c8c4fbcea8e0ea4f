package akamai

import (
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/mesosphere/akamai-assert/pkg/cookies"
	"github.com/mesosphere/akamai-assert/pkg/header"
)

// Subject is the resolved form of the object under assertion
type Subject struct {
	// Header is the header source, nil if the object exposes no headers
	Header header.Source

	// Jar is set when the object is a persistent client carrying its own
	// cookie jar
	Jar cookies.Jar

	// Status is the response status code, 0 when unknown
	Status int

	// Redirects holds the URLs followed before the final response
	Redirects []string

	// URL is the request URL, used to resolve relative Location headers
	URL *url.URL
}

type statusCoder interface {
	StatusCode() int
}

type redirectRecorder interface {
	Redirects() []string
}

// Resolve inspects v once and returns its Subject. A Subject is passed
// through unchanged.
func Resolve(v interface{}) Subject {
	switch s := v.(type) {
	case Subject:
		return s
	case *Subject:
		if s != nil {
			return *s
		}
		return Subject{}
	case *cookies.Agent:
		if s == nil {
			return Subject{}
		}
	}

	var subj Subject
	subj.Header, _ = header.For(v)

	switch s := v.(type) {
	case *http.Response:
		if s != nil {
			subj.Status = s.StatusCode
			if s.Request != nil {
				subj.URL = s.Request.URL
			}
		}
	case *http.Request:
		if s != nil {
			subj.URL = s.URL
		}
	case *httptest.ResponseRecorder:
		if s != nil {
			subj.Status = s.Code
		}
	}

	if s, ok := v.(statusCoder); ok {
		subj.Status = s.StatusCode()
	}
	if r, ok := v.(redirectRecorder); ok {
		subj.Redirects = r.Redirects()
	}
	if agent, ok := v.(*cookies.Agent); ok && agent != nil {
		subj.Jar = agent
		if res := agent.Response(); res != nil && res.Request != nil {
			subj.URL = res.Request.URL
		}
	}

	return subj
}
