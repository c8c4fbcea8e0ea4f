// Package probe requests a URL through a cookie-keeping agent and runs named
// checks against the response.
package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesosphere/akamai-assert/pkg/akamai"
	"github.com/mesosphere/akamai-assert/pkg/cookies"
	"github.com/mesosphere/akamai-assert/pkg/header"
)

// Options configures a Probe
type Options struct {
	Method          string
	Headers         http.Header
	Pragmas         []string
	Timeout         time.Duration
	FollowRedirects bool

	// StagingHost, when set, is dialed instead of the URL host. The Host
	// header and TLS server name still follow the URL.
	StagingHost string

	Log logrus.FieldLogger
	Now func() time.Time
}

// Outcome is the result of one check
type Outcome struct {
	Name    string
	Kind    string
	Pass    bool
	Message string
	Subject interface{}
}

// Report collects the outcomes of a probe run
type Report struct {
	URL       string
	Status    int
	Redirects []string
	Variables map[string]string
	Outcomes  []Outcome
}

// Failed returns the outcomes that did not pass
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Pass {
			failed = append(failed, o)
		}
	}
	return failed
}

// Probe runs checks against a single request
type Probe struct {
	opts  Options
	agent *cookies.Agent
	log   logrus.FieldLogger
}

// New creates a Probe
func New(opts Options) (*Probe, error) {
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	agent, err := cookies.NewAgent(cookies.AgentOptions{
		Client:          newClient(opts),
		FollowRedirects: opts.FollowRedirects,
	})
	if err != nil {
		return nil, err
	}

	return &Probe{
		opts:  opts,
		agent: agent,
		log:   opts.Log,
	}, nil
}

func newClient(opts Options) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.StagingHost != "" {
		dialer := &net.Dialer{Timeout: opts.Timeout}
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			_, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(opts.StagingHost, port))
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
}

// Run requests rawurl and evaluates checks in name order
func (p *Probe) Run(ctx context.Context, rawurl string, checks map[string]*Check) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, p.opts.Method, rawurl, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for name, values := range p.opts.Headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if len(p.opts.Pragmas) > 0 {
		akamai.AddDebugPragma(req, p.opts.Pragmas...)
	}

	res, err := p.agent.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", rawurl, err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()

	report := &Report{
		URL:       rawurl,
		Status:    res.StatusCode,
		Redirects: p.agent.Redirects(),
	}

	if _, ok := header.Get(p.agent, akamai.HeaderSessionInfo); ok {
		report.Variables, _ = akamai.SessionVariables(p.agent)
	}

	p.log.WithFields(logrus.Fields{
		"url":       rawurl,
		"status":    report.Status,
		"redirects": len(report.Redirects),
		"variables": len(report.Variables),
	}).Debug("Probe response received")

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		outcome := p.evaluate(name, checks[name])

		logger := p.log.WithFields(logrus.Fields{
			"check": name,
			"kind":  outcome.Kind,
		})
		if outcome.Pass {
			logger.Info("Check passed")
		} else {
			logger.WithField("reason", outcome.Message).Error("Check failed")
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

func (p *Probe) evaluate(name string, c *Check) Outcome {
	out := Outcome{Name: name, Kind: c.Kind}

	expected, err := c.Expected()
	if err != nil {
		out.Message = err.Error()
		return out
	}

	var res akamai.Result
	switch c.Kind {
	case KindCookie:
		res = akamai.Cookie(p.agent, c.Key, expected...)
	case KindStaging:
		res = akamai.Staging(p.agent)
	case KindVariable:
		res, err = akamai.Variable(p.agent, c.Key, expected...)
	case KindToken:
		res = akamai.CookieToken(p.agent, c.Key)
		if token, ok := res.Subject.(*akamai.Token); ok && c.NotExpired {
			res = notExpired(token, p.opts.Now())
		}
	case KindRedirect:
		if len(expected) == 0 {
			out.Message = "redirect check needs a destination"
			return out
		}
		res = akamai.RedirectTo(p.agent, c.Status, expected[0])
	default:
		err = fmt.Errorf("invalid check kind: %q", c.Kind)
	}
	if err != nil {
		out.Message = err.Error()
		return out
	}

	msg, failed := res.Failure(c.Negate)
	out.Pass = !failed
	out.Message = msg
	out.Subject = res.Subject
	return out
}

func notExpired(token *akamai.Token, now time.Time) akamai.Result {
	res := akamai.Result{
		Pass:           !token.Expired(now),
		NegatedMessage: fmt.Sprintf("expected token '%s' to be expired", token.Name),
		Subject:        token,
	}
	if exp, ok := token.Expires(); ok {
		res.Actual = exp
		res.Message = fmt.Sprintf("expected token '%s' not to be expired but it expired at %s", token.Name, exp.UTC().Format(time.RFC3339))
	} else {
		res.Message = fmt.Sprintf("expected token '%s' to carry a valid exp attribute", token.Name)
	}
	return res
}
