package akamai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesosphere/akamai-assert/pkg/cookies"
)

func newRedirectResponse(status int, server, location string) *http.Response {
	req, _ := http.NewRequest("GET", "https://www.example.com/start", nil)
	res := &http.Response{StatusCode: status, Header: http.Header{}, Request: req}
	if server != "" {
		res.Header.Set("Server", server)
	}
	if location != "" {
		res.Header.Set("Location", location)
	}
	return res
}

func TestRedirectTo(t *testing.T) {
	assert := assert.New(t)

	res := RedirectTo(newRedirectResponse(302, "AkamaiGHost", "/x"), 302, Equal("/x"))
	assert.True(res.Pass)

	res = RedirectTo(newRedirectResponse(301, "GHost", "https://www.example.com/x"), 301, Equal("/x"))
	assert.True(res.Pass, "absolute location should match a path destination")

	res = RedirectTo(newRedirectResponse(302, "AkamaiGHost", "x"), 302, Equal("https://www.example.com/x"))
	assert.True(res.Pass, "relative location should be resolved against the request URL")

	res = RedirectTo(newRedirectResponse(302, "AkamaiGHost", "/x?a=1"), 302, MustMatch(`^/x\?`))
	assert.True(res.Pass)
}

func TestRedirectToSurfacesFirstFailure(t *testing.T) {
	assert := assert.New(t)

	type test struct {
		res     *http.Response
		message string
	}

	var testCases = []test{
		{
			res:     newRedirectResponse(301, "AkamaiGHost", "/x"),
			message: "expected status code 302 but got 301",
		},
		{
			res:     newRedirectResponse(302, "nginx", "/x"),
			message: "expected header 'server' to match /AkamaiGHost|GHost/ but got \"nginx\"",
		},
		{
			res:     newRedirectResponse(302, "", "/x"),
			message: "expected header 'server' to match /AkamaiGHost|GHost/ but got <nil>",
		},
		{
			res:     newRedirectResponse(302, "AkamaiGHost", "/y"),
			message: "expected redirect to /x but got \"/y\"",
		},
		{
			res:     newRedirectResponse(302, "AkamaiGHost", ""),
			message: "expected redirect to /x but got <nil>",
		},
	}

	for _, c := range testCases {
		res := RedirectTo(c.res, 302, Equal("/x"))
		assert.False(res.Pass, c.message)
		assert.Equal(c.message, res.Message)
		assert.Equal("expected response not to be an Akamai 302 redirect to /x", res.NegatedMessage)
	}
}

func TestRedirectToLocationNeedsRedirectStatus(t *testing.T) {
	res := RedirectTo(newRedirectResponse(200, "AkamaiGHost", "/x"), 200, Equal("/x"))
	assert.False(t, res.Pass, "a Location header on a non-redirect response is not a redirect")
}

func TestRedirectToFollowedByAgent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "AkamaiGHost")
		http.Redirect(w, r, "/x", http.StatusFound)
	})
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "AkamaiGHost")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	agent, err := cookies.NewAgent(cookies.AgentOptions{FollowRedirects: true})
	require.Nil(t, err)
	res, err := agent.Get(context.Background(), srv.URL+"/start")
	require.Nil(t, err)
	res.Body.Close()

	assert.True(t, RedirectTo(agent, 200, Equal("/x")).Pass)
	assert.True(t, RedirectTo(agent, 200, Equal(srv.URL+"/x")).Pass)

	r := RedirectTo(agent, 200, Equal("/y"))
	assert.False(t, r.Pass)
	assert.Equal(t, `expected redirect to /y but got ["`+srv.URL+`/x"]`, r.Message)
}
