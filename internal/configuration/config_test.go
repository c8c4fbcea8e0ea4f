package configuration

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesosphere/akamai-assert/internal/probe"
	"github.com/mesosphere/akamai-assert/pkg/akamai"
)

/**
 * Tests
 */

func TestConfigDefaults(t *testing.T) {
	assert := assert.New(t)
	c, err := NewConfig([]string{})

	assert.Nil(err)

	assert.Equal("warn", c.LogLevel)
	assert.Equal("text", c.LogFormat)

	assert.Equal("", c.URL)
	assert.Equal("GET", c.Method)
	assert.Len(c.Headers, 0)
	assert.Len(c.Pragmas, 0)
	assert.False(c.DebugPragma)
	assert.False(c.FollowRedirects)
	assert.Equal(10, c.TimeoutSeconds)
	assert.Equal("", c.ChecksFile)
	assert.Len(c.Checks, 0)
}

func TestConfigParseArgs(t *testing.T) {
	assert := assert.New(t)
	c, err := NewConfig([]string{
		"--url=https://www.example.com/",
		"--header", "X-Forwarded-For: 1.2.3.4",
		"--pragma=akamai-x-cache-on,akamai-x-get-extracted-values",
		"--check.stage.kind=staging",
		"--check.sess.kind=token",
		"--check.sess.key", "\"__token__\"",
		"--check.sess.not-expired=true",
		"--check.moved.kind=redirect",
		"--check.moved.status=301",
		"--check.moved.pattern=^/new",
		"--check.tracking.key=tracking",
		"--check.tracking.negate=1",
	})
	require.Nil(t, err)

	// Check normal flags
	assert.Equal("https://www.example.com/", c.URL)
	assert.Equal([]string{"X-Forwarded-For: 1.2.3.4"}, c.Headers)
	assert.Equal(CommaSeparatedList{"akamai-x-cache-on", "akamai-x-get-extracted-values"}, c.Pragmas)

	// Check checks
	assert.Equal(map[string]*probe.Check{
		"stage": {
			Kind: probe.KindStaging,
		},
		"sess": {
			Kind:       probe.KindToken,
			Key:        "__token__",
			NotExpired: true,
		},
		"moved": {
			Kind:    probe.KindRedirect,
			Status:  301,
			Pattern: "^/new",
		},
		"tracking": {
			Kind:   probe.KindCookie,
			Key:    "tracking",
			Negate: true,
		},
	}, c.Checks)
}

func TestConfigParseUnknownFlags(t *testing.T) {
	_, err := NewConfig([]string{
		"--unknown=_oauthpath2",
	})
	if assert.Error(t, err) {
		assert.Equal(t, "unknown flag: unknown", err.Error())
	}
}

func TestConfigParseCheckError(t *testing.T) {
	assert := assert.New(t)

	// Check without name
	_, err := NewConfig([]string{
		"--check..kind=staging",
	})
	if assert.Error(err) {
		assert.Equal("check name is required", err.Error())
	}

	// Check without value
	c, err := NewConfig([]string{
		"--check.one.kind=",
	})
	if assert.Error(err) {
		assert.Equal("check param value is required", err.Error())
	}
	assert.Equal(map[string]*probe.Check{}, c.Checks)

	// Invalid param
	_, err = NewConfig([]string{
		"--check.one.action=allow",
	})
	if assert.Error(err) {
		assert.Equal("invalid check param: check.one.action", err.Error())
	}

	// Invalid status
	_, err = NewConfig([]string{
		"--check.one.status=moved",
	})
	if assert.Error(err) {
		assert.Contains(err.Error(), "invalid value for check.one.status")
	}
}

func TestConfigParseIni(t *testing.T) {
	assert := assert.New(t)
	c, err := NewConfig([]string{
		"--config=testdata/config0",
		"--config=testdata/config1",
		"--method=HEAD",
	})
	require.Nil(t, err)

	assert.Equal("https://www.example.com/", c.URL, "should be read from ini file")
	assert.Equal("HEAD", c.Method)
	assert.Equal(20, c.TimeoutSeconds, "variable in second ini file should override first ini file")
	assert.Equal(map[string]*probe.Check{
		"staging": {
			Kind: probe.KindStaging,
		},
		"session": {
			Kind:       probe.KindToken,
			Key:        "__token__",
			NotExpired: true,
		},
	}, c.Checks)
}

func TestConfigParseEnvironment(t *testing.T) {
	assert := assert.New(t)
	os.Setenv("PROBE_URL", "https://env.example.com/")
	os.Setenv("HEADER", "X-One: 1;X-Two: 2")
	c, err := NewConfig([]string{})
	assert.Nil(err)

	assert.Equal("https://env.example.com/", c.URL, "variable should be read from environment")
	assert.Equal([]string{"X-One: 1", "X-Two: 2"}, c.Headers, "headers should be split on ;")

	os.Unsetenv("PROBE_URL")
	os.Unsetenv("HEADER")
}

func TestConfigValidate(t *testing.T) {
	assert := assert.New(t)
	c, err := NewConfig([]string{
		"--url=https://www.example.com/",
		"--timeout=3",
		"--header=X-Test: a:b",
		"--debug-pragma",
		"--checks-file=testdata/checks.yaml",
		"--check.staging.kind=staging",
	})
	require.Nil(t, err)
	require.Nil(t, c.Validate())

	assert.Equal(time.Second*time.Duration(3), c.Timeout, "timeout should be read and converted to duration")
	assert.Equal(http.Header{"X-Test": {"a:b"}}, c.RequestHeaders)
	assert.Equal([]string(akamai.DebugPragmas), []string(c.Pragmas))

	if assert.Len(c.Checks, 2) {
		assert.False(c.Checks["staging"].Negate, "flag checks should win over the checks file")
		assert.Equal("true", c.Checks["cacheable"].Value)
	}

	opts := c.ProbeOptions(nil)
	assert.Equal("GET", opts.Method)
	assert.Equal(c.Timeout, opts.Timeout)
}

func TestConfigValidateErrors(t *testing.T) {
	type test struct {
		args []string
		err  string
	}

	var testCases = []test{
		{
			args: []string{"--check.s.kind=staging"},
			err:  "Oops, you forgot to set the \"url\" option. This is the URL the checks run against.",
		},
		{
			args: []string{"--url=www.example.com", "--check.s.kind=staging"},
			err:  `invalid url: "www.example.com"`,
		},
		{
			args: []string{"--url=https://www.example.com/", "--timeout=0", "--check.s.kind=staging"},
			err:  "timeout must be positive",
		},
		{
			args: []string{"--url=https://www.example.com/"},
			err:  "Oops, no checks are defined. Use \"check.<name>.<param>\" options or a checks file.",
		},
		{
			args: []string{"--url=https://www.example.com/", "--check.c.kind=cookie"},
			err:  "check c: cookie check needs a key",
		},
		{
			args: []string{"--url=https://www.example.com/", "--check.s.kind=staging", "--header=nocolon"},
			err:  `invalid header: "nocolon"`,
		},
	}

	for _, c := range testCases {
		config, err := NewConfig(c.args)
		require.Nil(t, err)
		err = config.Validate()
		if assert.Error(t, err, "%v", c.args) {
			assert.Equal(t, c.err, err.Error())
		}
	}
}

func TestConfigCommaSeparatedList(t *testing.T) {
	assert := assert.New(t)
	list := CommaSeparatedList{}

	err := list.UnmarshalFlag("one, two,")
	assert.Nil(err)
	assert.Equal(CommaSeparatedList{"one", "two"}, list, "should parse comma sepearated list")

	marshal, err := list.MarshalFlag()
	assert.Nil(err)
	assert.Equal("one,two", marshal, "should marshal back to comma sepearated list")
}
