package jules

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the client actually sent upstream.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte
	Header http.Header
}

// newTestServer returns an httptest.Server that records every request and
// answers with the given status and JSON body.
func newTestServer(t *testing.T, status int, body any, recorded *[]recordedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		query := make(map[string]string)
		for k, v := range r.URL.Query() {
			query[k] = v[0]
		}
		*recorded = append(*recorded, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  query,
			Body:   data,
			Header: r.Header.Clone(),
		})

		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New("test-api-key", WithBaseURL(baseURL), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_EmptyAPIKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JULES_API_KEY")
}

func TestNew_TimeoutOptionOrdering(t *testing.T) {
	c, err := New("k", WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)

	// A custom client keeps its own timeout in either option order, and the
	// caller's client is never mutated.
	hc := &http.Client{Timeout: time.Minute}
	c, err = New("k", WithTimeout(5*time.Second), WithHTTPClient(hc))
	require.NoError(t, err)
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, time.Minute, hc.Timeout)

	c, err = New("k", WithHTTPClient(hc), WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, time.Minute, hc.Timeout)
}

func TestClient_CreateSession(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, Session{
		Name:  "sessions/abc123",
		State: StateQueued,
	}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	session, err := client.CreateSession(context.Background(), CreateSessionRequest{
		Prompt:        "Add dark mode",
		SourceContext: SourceContext{Source: "sources/github/org/repo"},
	})
	require.NoError(t, err)

	// Exactly one POST to the session-creation path.
	require.Len(t, recorded, 1)
	assert.Equal(t, http.MethodPost, recorded[0].Method)
	assert.Equal(t, "/sessions", recorded[0].Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorded[0].Body, &body))
	assert.Equal(t, "Add dark mode", body["prompt"])
	sc, ok := body["sourceContext"].(map[string]any)
	require.True(t, ok, "body must carry sourceContext")
	assert.Equal(t, "sources/github/org/repo", sc["source"])

	// Upstream name and state pass through unchanged.
	assert.Equal(t, "sessions/abc123", session.Name)
	assert.Equal(t, StateQueued, session.State)
}

func TestClient_CreateSession_LocalValidation(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, nil, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.CreateSession(context.Background(), CreateSessionRequest{
		SourceContext: SourceContext{Source: "sources/github/org/repo"},
	})
	assert.True(t, IsInvalidArgument(err), "empty prompt should fail locally")

	_, err = client.CreateSession(context.Background(), CreateSessionRequest{
		Prompt:        "do things",
		SourceContext: SourceContext{Source: "github/org/repo"},
	})
	assert.True(t, IsInvalidArgument(err), "bad source name should fail locally")

	assert.Empty(t, recorded, "local validation failures must not reach upstream")
}

func TestClient_CreatePullRequest_AppendsInstruction(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, Session{Name: "sessions/pr1", State: StateQueued}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.CreatePullRequest(context.Background(), CreateSessionRequest{
		Prompt:              "Fix the flaky test",
		SourceContext:       SourceContext{Source: "sources/github/org/repo"},
		RequirePlanApproval: true, // forced off for PR sessions
	})
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorded[0].Body, &body))
	assert.Equal(t, "Fix the flaky test"+prInstruction, body["prompt"])
	_, hasApproval := body["requirePlanApproval"]
	assert.False(t, hasApproval)
}

func TestClient_GetSession_NotFound(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusNotFound, map[string]any{
		"error": map[string]any{"code": 404, "message": "session not found", "status": "NOT_FOUND"},
	}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetSession(context.Background(), "sessions/doesnotexist")
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "404 must map to a NotFound error, got: %v", err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, "session not found", ae.Message)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusUnauthorized, IsUnauthenticated, "401 unauthenticated"},
		{http.StatusForbidden, IsPermissionDenied, "403 permission denied"},
		{http.StatusNotFound, IsNotFound, "404 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recorded []recordedRequest
			srv := newTestServer(t, tt.status, nil, &recorded)
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			_, err := client.GetSource(context.Background(), "sources/github/org/repo")
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected kind for %d: %v", tt.status, err)
		})
	}
}

func TestClient_UpstreamError_KeepsPayload(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusServiceUnavailable, map[string]any{
		"error": map[string]any{"code": 503, "message": "backend overloaded", "status": "UNAVAILABLE"},
	}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.ListSessions(context.Background(), ListOptions{})
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindUpstream, ae.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, ae.Status)
	assert.Equal(t, "backend overloaded", ae.Message)
	assert.Contains(t, ae.Body, "UNAVAILABLE")
}

func TestClient_Timeout_IsTransportError(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetSession(ctx, "sessions/slow")
	require.Error(t, err)
	assert.True(t, IsTransport(err), "timeout must map to a transport error, got: %v", err)

	// No retry: a single request was issued.
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int64(1), attempts.Load())
}

func TestClient_ConnectionRefused_IsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := newTestClient(t, srv.URL)
	_, err := client.ListSources(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestClient_ListSources_PageSizeClamping(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want string
	}{
		{"zero uses default", 0, "30"},
		{"within range", 42, "42"},
		{"above max clamps to 100", 500, "100"},
		{"below min clamps to 1", -5, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recorded []recordedRequest
			srv := newTestServer(t, http.StatusOK, ListSourcesResponse{}, &recorded)
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			_, err := client.ListSources(context.Background(), ListOptions{PageSize: tt.in})
			require.NoError(t, err)
			require.Len(t, recorded, 1)
			assert.Equal(t, tt.want, recorded[0].Query["pageSize"])
		})
	}
}

func TestClient_ListActivities_DefaultPageSize(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, ListActivitiesResponse{}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.ListActivities(context.Background(), "sessions/abc123", ListOptions{})
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "/sessions/abc123/activities", recorded[0].Path)
	assert.Equal(t, "50", recorded[0].Query["pageSize"])
}

func TestClient_GetActivity(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, Activity{
		Name:  "sessions/abc123/activities/act1",
		Actor: "agent",
	}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	activity, err := client.GetActivity(context.Background(), "sessions/abc123/activities/act1")
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	assert.Equal(t, http.MethodGet, recorded[0].Method)
	assert.Equal(t, "/sessions/abc123/activities/act1", recorded[0].Path)
	assert.Equal(t, "sessions/abc123/activities/act1", activity.Name)
	assert.Equal(t, "agent", activity.Actor)
}

func TestClient_GetActivity_BadName(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, nil, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetActivity(context.Background(), "sessions/abc123")
	assert.True(t, IsInvalidArgument(err))
	assert.Empty(t, recorded, "validation failures must not reach upstream")
}

func TestClient_ListSources_FilterPassthrough(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, ListSourcesResponse{}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.ListSources(context.Background(), ListOptions{Filter: `name:"github"`})
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, `name:"github"`, recorded[0].Query["filter"])

	_, err = client.ListSources(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	_, present := recorded[1].Query["filter"]
	assert.False(t, present, "empty filter must not be sent")
}

func TestClient_PageTokenPassthrough(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, ListSessionsResponse{
		Sessions:      []Session{{Name: "sessions/1"}},
		NextPageToken: "tok-from-upstream",
	}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	resp, err := client.ListSessions(context.Background(), ListOptions{PageToken: "tok-opaque=="})
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	assert.Equal(t, "tok-opaque==", recorded[0].Query["pageToken"])
	assert.Equal(t, "tok-from-upstream", resp.NextPageToken)
}

func TestClient_SendMessage(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, nil, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ack, err := client.SendMessage(context.Background(), "sessions/abc123", "please also update the docs")
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	assert.Equal(t, http.MethodPost, recorded[0].Method)
	assert.Equal(t, "/sessions/abc123:sendMessage", recorded[0].Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorded[0].Body, &body))
	assert.Equal(t, "please also update the docs", body["prompt"])

	assert.True(t, ack.Success)
	assert.Equal(t, "sessions/abc123", ack.Session)
}

func TestClient_ApprovePlan(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, nil, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ack, err := client.ApprovePlan(context.Background(), "sessions/abc123")
	require.NoError(t, err)

	// Exactly one request, regardless of session state.
	require.Len(t, recorded, 1)
	assert.Equal(t, http.MethodPost, recorded[0].Method)
	assert.Equal(t, "/sessions/abc123:approvePlan", recorded[0].Path)
	assert.True(t, ack.Success)
}

func TestClient_RequestHeaders(t *testing.T) {
	var recorded []recordedRequest
	srv := newTestServer(t, http.StatusOK, Source{Name: "sources/github/org/repo"}, &recorded)
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetSource(context.Background(), "sources/github/org/repo")
	require.NoError(t, err)

	require.Len(t, recorded, 1)
	h := recorded[0].Header
	assert.Equal(t, "test-api-key", h.Get("X-Goog-Api-Key"))
	assert.NotEmpty(t, h.Get("X-Request-Id"))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 30, clampPageSize(0, 30))
	assert.Equal(t, 50, clampPageSize(0, 50))
	assert.Equal(t, 1, clampPageSize(-10, 30))
	assert.Equal(t, 100, clampPageSize(1000, 30))
	assert.Equal(t, 99, clampPageSize(99, 30))
}
