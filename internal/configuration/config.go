package configuration

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thomseddon/go-flags"

	logger "github.com/mesosphere/akamai-assert/internal/log"
	"github.com/mesosphere/akamai-assert/internal/probe"
	"github.com/mesosphere/akamai-assert/pkg/akamai"
)

var (
	log logrus.FieldLogger
)

// Config holds app configuration
type Config struct {
	LogLevel  string `long:"log-level" env:"LOG_LEVEL" default:"warn" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal" choice:"panic" description:"Log level"`
	LogFormat string `long:"log-format"  env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" choice:"pretty" description:"Log format"`

	Config          func(s string) error    `long:"config" env:"CONFIG" description:"Path to config file" json:"-"`
	URL             string                  `long:"url" env:"PROBE_URL" description:"URL to probe (required)"`
	Method          string                  `long:"method" env:"METHOD" default:"GET" description:"Request method"`
	Headers         []string                `long:"header" env:"HEADER" env-delim:";" description:"Extra request header as \"Name: value\", can be set multiple times"`
	Pragmas         CommaSeparatedList      `long:"pragma" env:"PRAGMA" description:"Akamai Pragma values to send, can be set multiple times"`
	DebugPragma     bool                    `long:"debug-pragma" env:"DEBUG_PRAGMA" description:"Send every Akamai debug Pragma value"`
	StagingHost     string                  `long:"staging-host" env:"STAGING_HOST" description:"Connect to this host instead of the URL host, e.g. the staging edge hostname"`
	FollowRedirects bool                    `long:"follow-redirects" env:"FOLLOW_REDIRECTS" description:"Follow redirects before running checks"`
	TimeoutSeconds  int                     `long:"timeout" env:"TIMEOUT" default:"10" description:"Request timeout in seconds"`
	ChecksFile      string                  `long:"checks-file" env:"CHECKS_FILE" description:"Path to a YAML file with check definitions"`
	Checks          map[string]*probe.Check `long:"check.<name>.<param>" description:"Check definitions, param can be: \"kind\", \"key\", \"value\", \"pattern\", \"status\", \"negate\" or \"not-expired\""`

	// Filled during transformations
	Timeout        time.Duration
	RequestHeaders http.Header `json:"-"`
}

// NewConfig loads config from provided args or uses os.Args if nil
func NewConfig(args []string) (*Config, error) {
	if args == nil && len(os.Args) > 0 {
		args = os.Args[1:]
	}

	c := Config{
		Checks: map[string]*probe.Check{},
	}

	err := c.parseFlags(args)

	log = logger.NewDefaultLogger(c.LogLevel, c.LogFormat)
	return &c, err
}

func (c *Config) parseFlags(args []string) error {
	p := flags.NewParser(c, flags.Default|flags.IniUnknownOptionHandler)
	p.UnknownOptionHandler = c.parseUnknownFlag

	i := flags.NewIniParser(p)
	c.Config = func(s string) error {
		return i.ParseFile(s)
	}

	_, err := p.ParseArgs(args)
	if err != nil {
		return handleFlagError(err)
	}

	return nil
}

func (c *Config) parseUnknownFlag(option string, arg flags.SplitArgument, args []string) ([]string, error) {
	// Parse checks in the format "check.<name>.<param>"
	parts := strings.Split(option, ".")
	if len(parts) != 3 || parts[0] != "check" {
		return args, fmt.Errorf("unknown flag: %v", option)
	}

	// Ensure there is a name
	name := parts[1]
	if len(name) == 0 {
		return args, errors.New("check name is required")
	}

	// Get value, or pop the next arg
	val, ok := arg.Value()
	if !ok && len(args) > 0 {
		val = args[0]
		args = args[1:]
	}

	// Check value
	if len(val) == 0 {
		return args, errors.New("check param value is required")
	}

	// Unquote if required
	if val[0] == '"' {
		var err error
		val, err = strconv.Unquote(val)
		if err != nil {
			return args, err
		}
	}

	// Get or create check
	check, ok := c.Checks[name]
	if !ok {
		check = probe.NewCheck()
		c.Checks[name] = check
	}

	// Add param value to check
	var err error
	switch parts[2] {
	case "kind":
		check.Kind = val
	case "key":
		check.Key = val
	case "value":
		check.Value = val
	case "pattern":
		check.Pattern = val
	case "status":
		check.Status, err = strconv.Atoi(val)
	case "negate":
		check.Negate, err = strconv.ParseBool(val)
	case "not-expired":
		check.NotExpired, err = strconv.ParseBool(val)
	default:
		return args, fmt.Errorf("invalid check param: %v", option)
	}
	if err != nil {
		return args, fmt.Errorf("invalid value for %v: %w", option, err)
	}

	return args, nil
}

func handleFlagError(err error) error {
	flagsErr, ok := err.(*flags.Error)
	if ok && flagsErr.Type == flags.ErrHelp {
		// Library has just printed cli help
		os.Exit(0)
	}

	return err
}

// Validate validates the provided config and fills the derived fields
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("Oops, you forgot to set the \"url\" option. This is the URL the checks run against.")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url: %q", c.URL)
	}

	if c.TimeoutSeconds <= 0 {
		return errors.New("timeout must be positive")
	}

	// Checks given as flags win over the checks file
	if c.ChecksFile != "" {
		fileChecks, err := probe.LoadChecks(c.ChecksFile)
		if err != nil {
			return err
		}
		for name, check := range fileChecks {
			if _, ok := c.Checks[name]; !ok {
				c.Checks[name] = check
			}
		}
	}

	if len(c.Checks) == 0 {
		return errors.New("Oops, no checks are defined. Use \"check.<name>.<param>\" options or a checks file.")
	}

	usesVariables := false
	for name, check := range c.Checks {
		if err := check.Validate(); err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		usesVariables = usesVariables || check.Kind == probe.KindVariable
	}

	// Transformations
	c.RequestHeaders = http.Header{}
	for _, h := range c.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header: %q", h)
		}
		c.RequestHeaders.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if c.DebugPragma {
		c.Pragmas = append(c.Pragmas, akamai.DebugPragmas...)
	}
	if usesVariables && !c.hasPragma(akamai.PragmaGetExtractedValues) {
		log.Warnf("Variable checks need the %q pragma to get the session info header from the edge", akamai.PragmaGetExtractedValues)
	}

	c.Timeout = time.Second * time.Duration(c.TimeoutSeconds)

	return nil
}

func (c *Config) hasPragma(pragma string) bool {
	for _, p := range c.Pragmas {
		if strings.TrimSpace(p) == pragma {
			return true
		}
	}
	return false
}

// ProbeOptions returns the probe options described by the config
func (c *Config) ProbeOptions(l logrus.FieldLogger) probe.Options {
	return probe.Options{
		Method:          c.Method,
		Headers:         c.RequestHeaders,
		Pragmas:         c.Pragmas,
		Timeout:         c.Timeout,
		FollowRedirects: c.FollowRedirects,
		StagingHost:     c.StagingHost,
		Log:             l,
	}
}

func (c Config) String() string {
	jsonConf, _ := json.Marshal(c)
	return string(jsonConf)
}

// Legacy support for comma separated lists

// CommaSeparatedList flag value
type CommaSeparatedList []string

// UnmarshalFlag unmarshals a comma-separated list from the flag value
func (c *CommaSeparatedList) UnmarshalFlag(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*c = append(*c, v)
		}
	}
	return nil
}

// MarshalFlag marshals the comma-separated list to the flag value
func (c *CommaSeparatedList) MarshalFlag() (string, error) {
	return strings.Join(*c, ","), nil
}
