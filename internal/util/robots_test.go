package util

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		hits.Add(1)
		_, _ = io.WriteString(w, "User-agent: Kotoba\nDisallow: /private\nCrawl-delay: 2\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "Kotoba/0.1 (+https://example.com)", discardLogger())
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/news/article.html")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2*time.Second, delay)

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/page")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), hits.Load(), "robots.txt should be fetched once per host")
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "Kotoba/0.1", discardLogger())
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_InvalidURL(t *testing.T) {
	checker := NewRobotsChecker(http.DefaultClient, "Kotoba/0.1", discardLogger())
	_, _, err := checker.CanFetch(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "Kotoba", NormalizeUserAgent("Kotoba/0.1 (+https://github.com/ppiankov/kotoba)"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}
