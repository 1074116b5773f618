package clientutil_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/ytlyric/clientutil"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) clientutil.Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return clientutil.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	final := clientutil.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "final")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := clientutil.Chain(mark("a"), mark("b"), mark("c"))(final)
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "final"}, order)
}

func TestWithUserAgent(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.UserAgent()
	}))
	t.Cleanup(srv.Close)

	client := clientutil.Wrap(srv.Client(), clientutil.WithUserAgent("ytlyric/test"))
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "ytlyric/test", <-agents)
}

func TestWithCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=3600")
		w.Write([]byte("body"))
	}))
	t.Cleanup(srv.Close)

	client := clientutil.Wrap(srv.Client(), clientutil.WithCache())
	for range 3 {
		resp, err := client.Get(srv.URL + "/thing")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, "body", string(body))
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestWithRateLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(srv.Close)

	const interval = 50 * time.Millisecond
	client := clientutil.Wrap(srv.Client(), clientutil.WithRateLimit(interval))

	start := time.Now()
	for range 3 {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.GreaterOrEqual(t, time.Since(start), 2*interval)
}

func TestWithRateLimitCancelled(t *testing.T) {
	t.Parallel()

	client := clientutil.Wrap(nil, clientutil.WithRateLimit(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:0/", nil)
	_, err := client.Do(req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithLogging(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := clientutil.Wrap(srv.Client(), clientutil.WithLogging(logger))
	resp, err := client.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()

	assert.True(t, strings.Contains(buf.String(), "status=404"))
	assert.True(t, strings.Contains(buf.String(), "/missing"))
}

func TestWrapLeavesOriginal(t *testing.T) {
	t.Parallel()

	orig := &http.Client{}
	wrapped := clientutil.Wrap(orig, clientutil.WithUserAgent("x"))
	assert.Nil(t, orig.Transport)
	assert.NotNil(t, wrapped.Transport)
	assert.NotSame(t, orig, wrapped)
}
