package outbound

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "agent-cli/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"bitcoin":{"usd":123.5}}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{})

	var payload map[string]map[string]float64
	err := client.GetJSON(context.Background(), server.URL, url.Values{"ids": {"bitcoin"}}, &payload)
	require.NoError(t, err)
	assert.InDelta(t, 123.5, payload["bitcoin"]["usd"], 0.0001)
}

func TestClientReturnsStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{})

	var payload map[string]any
	err := client.GetJSON(context.Background(), server.URL, nil, &payload)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "nope")
}

func TestClientPostForm(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "golang", r.PostForm.Get("q"))
		_, _ = io.WriteString(w, "<html></html>")
	}))
	t.Cleanup(server.Close)

	body, err := NewClient(Options{}).PostForm(context.Background(), server.URL, url.Values{"q": {"golang"}})
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(body))
}

func TestClientBreakerOpensAfterServerFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{Name: "test"})

	for i := 0; i < 5; i++ {
		var payload map[string]any
		err := client.GetJSON(context.Background(), server.URL, nil, &payload)
		require.Error(t, err)
	}

	var payload map[string]any
	err := client.GetJSON(context.Background(), server.URL, nil, &payload)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), hits.Load())
}

func TestIsBreakerSuccess(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBreakerSuccess(nil))
	assert.True(t, IsBreakerSuccess(context.Canceled))
	assert.True(t, IsBreakerSuccess(&StatusError{StatusCode: 404}))
	assert.False(t, IsBreakerSuccess(&StatusError{StatusCode: 503}))
	assert.False(t, IsBreakerSuccess(errors.New("dial tcp: refused")))
}
