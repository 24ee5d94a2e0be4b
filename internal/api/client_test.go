package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)

	_, err = NewClient("/relative/only")
	assert.Error(t, err)
}

func TestDo_DecodesJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, client.get(context.Background(), "/ping", nil, &out))
	assert.Equal(t, "ok", out.Status)
}

func TestDo_PlainTextResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	})

	var out string
	require.NoError(t, client.get(context.Background(), "/ping", nil, &out))
	assert.Equal(t, "pong", out)
}

func TestDo_BearerTokenReadPerCall(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	})

	token := ""
	client.tokens = TokenFunc(func(ctx context.Context) string { return token })

	require.NoError(t, client.get(context.Background(), "/a", nil, nil))
	token = "tok-later"
	require.NoError(t, client.get(context.Background(), "/b", nil, nil))

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0])
	assert.Equal(t, "Bearer tok-later", seen[1])
}

func TestDo_HTTPErrorUsesServerMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		ctype   string
		wantMsg string
	}{
		{name: "json message field", status: 400, body: `{"message":"email is taken"}`, ctype: "application/json", wantMsg: "email is taken"},
		{name: "json error field", status: 422, body: `{"error":"bad pincode"}`, ctype: "application/json", wantMsg: "bad pincode"},
		{name: "plain text body", status: 500, body: "boom", ctype: "text/plain", wantMsg: "boom"},
		{name: "empty body falls back", status: 503, body: "", ctype: "application/json", wantMsg: "HTTP error 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ctype)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.get(context.Background(), "/x", nil, nil)
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestDo_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}, WithTimeout(20*time.Millisecond))

	err := client.get(context.Background(), "/slow", nil, nil)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDo_CallerCancellationIsNotANetworkError(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := client.get(ctx, "/slow", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listens there anymore

	client, err := NewClient(url)
	require.NoError(t, err)

	err = client.get(context.Background(), "/x", nil, nil)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestDo_UnauthorizedHookFires(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})

	fired := 0
	client.onUnauthorized = func(ctx context.Context) { fired++ }

	err := client.get(context.Background(), "/x", nil, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, 1, fired)
}

func TestDo_PostMarshalsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@example.com", body["email"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	err := client.post(context.Background(), "/auth/send-otp", nil, map[string]string{"email": "asha@example.com"}, nil)
	require.NoError(t, err)
}

func TestIsStatus(t *testing.T) {
	err := &HTTPError{Status: 404, Message: "not found"}
	assert.True(t, IsStatus(err, 404))
	assert.False(t, IsStatus(err, 500))
	assert.False(t, IsStatus(errors.New("other"), 404))
}
