package probe

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"

	"github.com/mesosphere/akamai-assert/pkg/akamai"
)

// Check kinds
const (
	KindCookie   = "cookie"
	KindStaging  = "staging"
	KindVariable = "variable"
	KindToken    = "token"
	KindRedirect = "redirect"
)

// Check is a single assertion run against the probed response
type Check struct {
	Kind       string `yaml:"kind"`
	Key        string `yaml:"key"`
	Value      string `yaml:"value"`
	Pattern    string `yaml:"pattern"`
	Status     int    `yaml:"status"`
	Negate     bool   `yaml:"negate"`
	NotExpired bool   `yaml:"not-expired"`
}

// NewCheck creates a new Check instance
func NewCheck() *Check {
	return &Check{
		Kind: KindCookie,
	}
}

// Validate validates the check
func (c *Check) Validate() error {
	switch c.Kind {
	case KindCookie, KindVariable:
		if c.Key == "" {
			return fmt.Errorf("%s check needs a key", c.Kind)
		}
	case KindStaging:
		if c.Value != "" || c.Pattern != "" {
			return errors.New("staging check takes no value or pattern")
		}
	case KindToken:
		if c.Key == "" {
			return errors.New("token check needs a key")
		}
		if c.Value != "" || c.Pattern != "" {
			return errors.New("token check takes no value or pattern")
		}
		if c.Negate {
			return errors.New("token check cannot be negated")
		}
	case KindRedirect:
		if c.Status == 0 {
			return errors.New("redirect check needs a status")
		}
		if c.Value == "" && c.Pattern == "" {
			return errors.New("redirect check needs a value or pattern destination")
		}
		if c.Negate {
			return errors.New("redirect check cannot be negated")
		}
	default:
		return fmt.Errorf("invalid check kind: %q", c.Kind)
	}

	if c.Value != "" && c.Pattern != "" {
		return errors.New("value and pattern are mutually exclusive")
	}
	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	}
	if c.NotExpired && c.Kind != KindToken {
		return errors.New("not-expired only applies to token checks")
	}

	return nil
}

// Expected returns the expected value of the check, if any
func (c *Check) Expected() ([]akamai.Expected, error) {
	switch {
	case c.Pattern != "":
		e, err := akamai.MatchString(c.Pattern)
		if err != nil {
			return nil, err
		}
		return []akamai.Expected{e}, nil
	case c.Value != "":
		return []akamai.Expected{akamai.Equal(c.Value)}, nil
	}
	return nil, nil
}

type checksFile struct {
	Checks map[string]*Check `yaml:"checks"`
}

// LoadChecks reads named checks from a YAML file of the form
//
//	checks:
//	  staging:
//	    kind: staging
//	  session:
//	    kind: token
//	    key: __token__
func LoadChecks(path string) (map[string]*Check, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := checksFile{}
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	for name, c := range f.Checks {
		if c == nil {
			return nil, fmt.Errorf("check %s is empty", name)
		}
		if c.Kind == "" {
			c.Kind = KindCookie
		}
	}
	return f.Checks, nil
}
