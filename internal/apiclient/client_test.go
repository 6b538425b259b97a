package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) AccessToken() (string, bool) {
	return s.token, s.token != ""
}

type capturedRequest struct {
	mu          sync.Mutex
	method      string
	path        string
	auth        string
	contentType string
	requestID   string
	body        string
}

func newCaptureServer(t *testing.T, status int, respBody string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	got := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.mu.Lock()
		got.method = r.Method
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		got.contentType = r.Header.Get("Content-Type")
		got.requestID = r.Header.Get("X-Request-ID")
		got.body = string(b)
		got.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func (c *capturedRequest) snapshot() capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return capturedRequest{
		method:      c.method,
		path:        c.path,
		auth:        c.auth,
		contentType: c.contentType,
		requestID:   c.requestID,
		body:        c.body,
	}
}

func TestClient_AttachesBearerWhenSessionPresent(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusOK, `{"ok":true}`)
	tokens := &staticTokens{token: "tok-1"}
	c := NewClient(srv.URL+"/", tokens, time.Second, nil)

	require.NoError(t, c.DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/chat/tasks"}, nil))
	assert.Equal(t, "Bearer tok-1", got.snapshot().auth)
	assert.Equal(t, "/chat/tasks", got.snapshot().path)
	assert.Empty(t, got.snapshot().contentType)
	assert.NotEmpty(t, got.snapshot().requestID)

	tokens.token = ""
	require.NoError(t, c.DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/chat/tasks"}, nil))
	assert.Empty(t, got.snapshot().auth)
}

func TestClient_TokenReadBeforeEveryRequest(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusOK, `{}`)
	tokens := &staticTokens{token: "first"}
	c := NewClient(srv.URL, tokens, 0, nil)

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer first", got.snapshot().auth)

	tokens.token = "second"
	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer second", got.snapshot().auth)
}

func TestClient_AnonymousSkipsBearer(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, &staticTokens{token: "tok"}, 0, nil)

	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/register", JSON: map[string]string{"email": "a@b.com"}, Anonymous: true})
	require.NoError(t, err)
	assert.Empty(t, got.snapshot().auth)
	assert.Equal(t, "application/json", got.snapshot().contentType)
	assert.JSONEq(t, `{"email":"a@b.com"}`, got.snapshot().body)
}

func TestClient_BodilessRequestsOmitContentType(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, &staticTokens{token: "tok"}, 0, nil)

	for _, method := range []string{http.MethodGet, http.MethodDelete, http.MethodPut} {
		_, err := c.Do(context.Background(), Request{Method: method, Path: "/chat/tasks/1/done"})
		require.NoError(t, err)
		assert.Empty(t, got.snapshot().contentType, method)
		assert.Empty(t, got.snapshot().body, method)
	}
}

func TestClient_FormBody(t *testing.T) {
	srv, got := newCaptureServer(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, nil, 0, nil)

	form := (&Form{}).Add("username", "a@b.com").Add("password", "p w")
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login", Form: form})
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", got.snapshot().contentType)
	assert.Equal(t, "username=a%40b.com&password=p+w", got.snapshot().body)
}

func TestClient_RejectsJSONAndForm(t *testing.T) {
	c := NewClient("http://unused", nil, 0, nil)
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/x", JSON: 1, Form: &Form{}})
	require.Error(t, err)
}

func TestClient_APIErrorWithDetail(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusBadRequest, `{"detail":"Email already registered"}`)
	c := NewClient(srv.URL, nil, 0, nil)

	resp, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/register"})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Email already registered", apiErr.Detail)
	assert.Equal(t, "Email already registered", Detail(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_ValidationDetailList(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"msg":"field required"}]}`)
	c := NewClient(srv.URL, nil, 0, nil)

	err := c.DoJSON(context.Background(), Request{Method: http.MethodPost, Path: "/auth/register"}, nil)
	assert.Equal(t, "value is not a valid email address; field required", Detail(err))
}

func TestClient_UnauthorizedPropagatesUnchanged(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)
	c := NewClient(srv.URL, &staticTokens{token: "expired"}, 0, nil)

	err := c.DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/chat/history"}, &[]string{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_UnexpectedResponse(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK, `not json`)
	c := NewClient(srv.URL, nil, 0, nil)

	var out map[string]any
	err := c.DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, &out)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)

	empty, _ := newCaptureServer(t, http.StatusOK, ``)
	c = NewClient(empty.URL, nil, 0, nil)
	err = c.DoJSON(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, &out)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, time.Second, nil)
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/chat/history"})
	assert.ErrorIs(t, err, ErrTransport)
}
