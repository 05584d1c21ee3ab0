package util

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), rawURL string) *url.URL {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	u, err := fn(req)
	require.NoError(t, err)
	return u
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	fn := NewProxyFunc("http://plain:8080", "http://secure:8443", "")

	assert.Equal(t, "plain:8080", proxyFor(t, fn, "http://jisho.org/api").Host)
	assert.Equal(t, "secure:8443", proxyFor(t, fn, "https://kanjiapi.dev/v1/kanji/年").Host)
}

func TestNewProxyFunc_HTTPSFallsBackToHTTPProxy(t *testing.T) {
	fn := NewProxyFunc("http://plain:8080", "", "")
	assert.Equal(t, "plain:8080", proxyFor(t, fn, "https://jisho.org").Host)
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	fn := NewProxyFunc("http://plain:8080", "", "localhost, .internal")

	assert.Nil(t, proxyFor(t, fn, "http://localhost:9000/x"))
	assert.Nil(t, proxyFor(t, fn, "http://api.internal/x"))
	assert.NotNil(t, proxyFor(t, fn, "http://jisho.org/x"))
}
