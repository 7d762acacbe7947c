package clientutil_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/lyricfill/clientutil"
)

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) clientutil.Middleware {
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

	rt := clientutil.Chain(mw("a"), mw("b"), mw("c"))(final)
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "final"}, order)
}

func TestUserAgentAndLogging(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.Header.Get("User-Agent"))
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := clientutil.Wrap(srv.Client(), clientutil.Chain(
		clientutil.WithLogging(logger),
		clientutil.WithUserAgent("lyricfill/test"),
	))

	resp, err := c.Get(srv.URL + "/search?q=wings")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "lyricfill/test", string(body))
	assert.Contains(t, logs.String(), "status=200")
	assert.Contains(t, logs.String(), "q=wings")
}
