package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInput_Default(t *testing.T) {
	in, err := LoadInput(context.Background(), InputRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "default", in.Source)
	assert.Equal(t, DefaultText, in.Text)
}

func TestLoadInput_Text(t *testing.T) {
	in, err := LoadInput(context.Background(), InputRequest{Text: "  今日はいい天気ですね。\n"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text", in.Source)
	assert.Equal(t, "今日はいい天気ですね。", in.Text)
}

func TestLoadInput_Stdin(t *testing.T) {
	in, err := LoadInput(context.Background(), InputRequest{Text: "-", Stdin: strings.NewReader("肉を食べたい\n")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stdin", in.Source)
	assert.Equal(t, "肉を食べたい", in.Text)
}

func TestLoadInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("\ufeff祭典\n"), 0o644))

	in, err := LoadInput(context.Background(), InputRequest{File: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "file:"+path, in.Source)
	assert.Equal(t, "祭典", in.Text)
}

func TestLoadInput_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadInput(ctx, InputRequest{Text: "a", File: "b"}, nil)
	assert.Error(t, err)

	_, err = LoadInput(ctx, InputRequest{File: filepath.Join(t.TempDir(), "missing.txt")}, nil)
	assert.Error(t, err)

	_, err = LoadInput(ctx, InputRequest{Text: "-", Stdin: strings.NewReader("   ")}, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = LoadInput(ctx, InputRequest{URL: "http://example.com"}, nil)
	assert.Error(t, err)
}

func TestLoadInput_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, `<html><head><title>x</title></head><body><script>var a;</script><p>選んだ番組</p></body></html>`)
	}))
	defer server.Close()

	in, err := LoadInput(context.Background(), InputRequest{URL: server.URL + "/news"}, testFetcher(true))
	require.NoError(t, err)
	assert.Equal(t, "url:"+server.URL+"/news", in.Source)
	assert.Equal(t, "選んだ番組", in.Text)
}
