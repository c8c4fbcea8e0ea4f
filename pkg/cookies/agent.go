package cookies

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const defaultMaxRedirects = 10

// AgentOptions configures an Agent
type AgentOptions struct {
	// Client is copied; its Jar and CheckRedirect are replaced. A zero
	// client is used when nil.
	Client *http.Client

	// FollowRedirects makes the agent follow redirects instead of returning
	// the redirect response itself.
	FollowRedirects bool

	// MaxRedirects caps followed redirects, 10 when zero.
	MaxRedirects int
}

// Agent is a persistent HTTP client that keeps cookies across requests.
// Matchers given an Agent look cookies up in its jar instead of parsing the
// last response's headers.
type Agent struct {
	client *http.Client
	jar    *cookiejar.Jar

	mu        sync.Mutex
	visited   []*url.URL
	redirects []string
	last      *http.Response
}

// NewAgent creates an Agent with an empty, public-suffix aware cookie jar
func NewAgent(opts AgentOptions) (*Agent, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}

	client := &http.Client{}
	if opts.Client != nil {
		*client = *opts.Client
	}

	maxRedirects := opts.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = defaultMaxRedirects
	}

	a := &Agent{jar: jar}
	client.Jar = jar
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !opts.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}

		a.mu.Lock()
		a.redirects = append(a.redirects, req.URL.String())
		a.visited = append(a.visited, req.URL)
		a.mu.Unlock()
		return nil
	}
	a.client = client

	return a, nil
}

// Do sends req and records the response as the agent's current response
func (a *Agent) Do(req *http.Request) (*http.Response, error) {
	a.mu.Lock()
	a.redirects = nil
	a.visited = append(a.visited, req.URL)
	a.mu.Unlock()

	log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}).Debug("Agent sending request")

	res, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.last = res
	a.mu.Unlock()

	log.WithFields(logrus.Fields{
		"status":    res.StatusCode,
		"redirects": len(a.Redirects()),
	}).Debug("Agent received response")

	return res, nil
}

// Get issues a GET request for rawurl
func (a *Agent) Get(ctx context.Context, rawurl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	return a.Do(req)
}

// Response returns the last response received, or nil
func (a *Agent) Response() *http.Response {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Values returns the named header of the last response
func (a *Agent) Values(name string) []string {
	res := a.Response()
	if res == nil {
		return nil
	}
	return res.Header.Values(name)
}

// StatusCode returns the status code of the last response, or 0
func (a *Agent) StatusCode() int {
	res := a.Response()
	if res == nil {
		return 0
	}
	return res.StatusCode
}

// Redirects returns the URLs followed while serving the last request
func (a *Agent) Redirects() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.redirects...)
}

// Cookie looks name up in the agent jar. With All access every URL the agent
// has visited is searched, otherwise the access domain and path select the
// URL.
func (a *Agent) Cookie(name string, access AccessInfo) (*http.Cookie, bool) {
	for _, u := range a.lookupURLs(access) {
		for _, c := range a.jar.Cookies(u) {
			if c.Name == name {
				return c, true
			}
		}
	}
	return nil, false
}

func (a *Agent) lookupURLs(access AccessInfo) []*url.URL {
	if access.Domain != "" {
		scheme := "http"
		if access.Secure {
			scheme = "https"
		}
		path := access.Path
		if path == "" {
			path = "/"
		}
		return []*url.URL{{Scheme: scheme, Host: access.Domain, Path: path}}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	urls := make([]*url.URL, 0, len(a.visited))
	for _, v := range a.visited {
		u := *v
		if access.Path != "" {
			u.Path = access.Path
		}
		urls = append(urls, &u)
	}
	return urls
}
