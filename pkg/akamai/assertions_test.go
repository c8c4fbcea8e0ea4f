package akamai

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockT struct {
	failed bool
	output string
}

func (m *mockT) Errorf(format string, args ...interface{}) {
	m.failed = true
	m.output += fmt.Sprintf(format, args...)
}

func TestAssertionsPass(t *testing.T) {
	a := New(t)
	req := newRequestWithCookie("k=v; sess=exp=123~data=a%20b~hash=def")

	a.Cookie(req, "k")
	a.NoCookie(req, "missing")
	a.CookieValue(req, "k", Equal("v"))
	a.NotCookieValue(req, "k", Equal("x"))

	token := a.CookieToken(req, "sess")
	if assert.NotNil(t, token) {
		assert.Equal(t, int64(123), token.Exp)
		assert.Equal(t, "a b", token.Data)
		assert.Equal(t, "def", token.Hash)
	}

	res := newSessionInfoResponse().(*http.Response)
	res.Header.Set("X-Akamai-Staging", "ESSL")
	a.Staging(res)

	value, ok := a.VariableValue(res, "A", Equal("1"))
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	value, ok = a.Variable(res, "B")
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	a.NoVariable(res, "C")
	a.NotVariableValue(res, "A", Equal("2"))
	a.NotStaging(newResponse(nil))
	a.RedirectTo(newRedirectResponse(302, "AkamaiGHost", "/x"), 302, Equal("/x"))
}

func TestAssertionsFail(t *testing.T) {
	assert := assert.New(t)

	mock := new(mockT)
	assert.False(New(mock).CookieValue(newRequestWithCookie("k=v"), "k", Equal("x")))
	assert.True(mock.failed)
	assert.Contains(mock.output, "expected cookie 'k' to have value x but got \"v\"")

	mock = new(mockT)
	assert.False(New(mock).NoCookie(newRequestWithCookie("k=v"), "k"))
	assert.Contains(mock.output, "expected cookie 'k' to not exist")

	mock = new(mockT)
	assert.False(New(mock).Staging(newResponse(nil)))
	assert.Contains(mock.output, "expected header 'x-akamai-staging' to exist")

	mock = new(mockT)
	assert.False(New(mock).NotStaging(newResponse(map[string]string{"X-Akamai-Staging": "ESSL"})))
	assert.Contains(mock.output, "expected header 'x-akamai-staging' to not exist")

	mock = new(mockT)
	assert.Nil(New(mock).CookieToken(newRequestWithCookie("k=v"), "sess"))
	assert.Contains(mock.output, "expected cookie 'sess' to exist")

	mock = new(mockT)
	assert.False(New(mock).RedirectTo(newRedirectResponse(302, "nginx", "/x"), 302, Equal("/x")))
	assert.Contains(mock.output, "expected header 'server' to match /AkamaiGHost|GHost/")
}

func TestAssertionsVariableFailures(t *testing.T) {
	assert := assert.New(t)

	mock := new(mockT)
	value, ok := New(mock).Variable(newResponse(nil), "A")
	assert.False(ok)
	assert.Equal("", value)
	assert.Contains(mock.output, "required header is missing: x-akamai-session-info")

	mock = new(mockT)
	assert.False(New(mock).NoVariable(newResponse(nil), "A"), "missing header should fail negated checks too")

	mock = new(mockT)
	_, ok = New(mock).VariableValue(newSessionInfoResponse(), "A", Equal("2"))
	assert.False(ok)
	assert.Contains(mock.output, "expected variable 'A' to have value 2 but got \"1\"")

	mock = new(mockT)
	assert.False(New(mock).NoVariable(newSessionInfoResponse(), "A"))
	assert.Contains(mock.output, "expected variable 'A' to not exist")
}
