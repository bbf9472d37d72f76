package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/triagekit/prlinked/internal/adapter/driven/github"
	"github.com/triagekit/prlinked/internal/domain/model"
)

// testHeaders is the opaque header map forwarded on every outbound call.
var testHeaders = map[string]string{
	"Authorization": "Bearer test-token",
	"Accept":        "application/vnd.github.v3+json",
}

// newTestClient builds a Client against an httptest server, forwarding
// testHeaders the way the production credential collaborator would.
func newTestClient(t *testing.T, server *httptest.Server) *ghAdapter.Client {
	t.Helper()

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/", testHeaders)
	require.NoError(t, err)
	return client
}

// assertAuthHeaders checks that the collaborator-supplied headers arrived
// unchanged on the request.
func assertAuthHeaders(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
}

func TestNewClientWithHTTPClient_BadBaseURL(t *testing.T) {
	client, err := ghAdapter.NewClientWithHTTPClient(&http.Client{}, "://not-a-url", testHeaders)

	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing base URL")
}

func TestNewClient_BadBaseURL(t *testing.T) {
	client, err := ghAdapter.NewClient(testHeaders, "://not-a-url", time.Second)

	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing base URL")
}

// The production constructor must carry the same header forwarding as the
// test constructor, on REST and GraphQL alike.
func TestNewClient_ForwardsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertAuthHeaders(t, r)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/graphql":
			w.Write([]byte(`{"data":null}`))
		case "/search/issues":
			w.Write([]byte(`{"total_count":0,"items":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := ghAdapter.NewClient(testHeaders, server.URL+"/", time.Second)
	require.NoError(t, err)

	_, err = ghAdapter.NewTimelineFinder(client).FindOpenPR(context.Background(), model.LookupRequest{
		Owner: "test-owner", Repo: "test-repo", IssueNumber: 42,
	})
	require.NoError(t, err)

	_, err = ghAdapter.NewSearchFinder(client).FindOpenPR(context.Background(), model.LookupRequest{
		Owner: "test-owner", Repo: "test-repo", IssueNumber: 42,
	})
	require.NoError(t, err)
}

// The configured timeout must reach the production client: a server slower
// than the timeout makes the call fail instead of hanging for the default.
func TestNewClient_HonorsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":null}`))
	}))
	defer server.Close()

	client, err := ghAdapter.NewClient(testHeaders, server.URL+"/", 20*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	pr, err := ghAdapter.NewTimelineFinder(client).FindOpenPR(context.Background(), model.LookupRequest{
		Owner: "test-owner", Repo: "test-repo", IssueNumber: 42,
	})

	assert.Nil(t, pr)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond, "call should abort at the configured timeout, not the server's pace")
}
