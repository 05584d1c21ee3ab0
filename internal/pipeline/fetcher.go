package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/ratelimit"
	"github.com/ppiankov/kotoba/internal/util"
)

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

const fetchAttempts = 3

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Fetcher downloads HTML pages for --url ingestion
type Fetcher struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	userAgent  string
	maxBytes   int64
	log        *slog.Logger
}

// NewFetcher creates a Fetcher; limiter may be nil
func NewFetcher(cfg model.HTTPConfig, limiter *ratelimit.Limiter, logger *slog.Logger) *Fetcher {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: httpClient,
		limiter:    limiter,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		log:        logger.With("component", "fetcher"),
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 2_000_000
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(httpClient, cfg.UserAgent, logger)
	}
	return f
}

// FetchResult is a downloaded page decoded to UTF-8
type FetchResult struct {
	HTML        string
	ContentType string
	FinalURL    string
}

// FetchWithRetry checks robots.txt, then fetches with retries on transient failures
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
		crawlDelay = delay
	}

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			f.log.WarnContext(ctx, "fetch retry", slog.String("url", rawURL), slog.Int("attempt", attempt+1), slog.String("reason", lastErr.Error()))
			fetchSleepFunc(backoff)
		}

		if f.limiter != nil {
			if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// Fetch performs one GET and decodes the body to UTF-8 using the declared or sniffed charset
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.8,en;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := toUTF8(raw, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		ContentType: contentType,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// toUTF8 keeps undeclared UTF-8 bodies as they are and converts everything else
func toUTF8(raw []byte, contentType string) ([]byte, error) {
	if !strings.Contains(strings.ToLower(contentType), "charset=") && utf8.Valid(raw) {
		return raw, nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// isRetryableFetchError reports whether err is a 5xx, a 429 or a connection failure
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if strings.HasPrefix(msg, "unexpected status: ") {
		code := strings.TrimPrefix(msg, "unexpected status: ")
		return strings.HasPrefix(code, "5") || strings.HasPrefix(code, "429")
	}
	return strings.HasPrefix(msg, "fetch: ")
}
