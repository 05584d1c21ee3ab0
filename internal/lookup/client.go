package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ppiankov/kotoba/internal/cache"
	"github.com/ppiankov/kotoba/internal/model"
	"github.com/ppiankov/kotoba/internal/ratelimit"
	"github.com/ppiankov/kotoba/internal/util"
)

// lookupSleepFunc is replaced in tests
var lookupSleepFunc = time.Sleep

// NewHTTPClient builds the client shared by both lookup services
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

// Getter issues GET requests for JSON documents with throttling, retry and an optional in-run memo
type Getter struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	memo       cache.Cache
	memoTTL    time.Duration
	userAgent  string
	maxBytes   int64
	maxRetries int
	log        *slog.Logger
}

// GetterOptions configures a Getter; nil Limiter and Memo disable those features
type GetterOptions struct {
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
	Memo       cache.Cache
	MemoTTL    time.Duration
	UserAgent  string
	MaxBytes   int64
	MaxRetries int
	Logger     *slog.Logger
}

// NewGetter creates a Getter
func NewGetter(opts GetterOptions) *Getter {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Getter{
		httpClient: httpClient,
		limiter:    opts.Limiter,
		memo:       opts.Memo,
		memoTTL:    opts.MemoTTL,
		userAgent:  opts.UserAgent,
		maxBytes:   maxBytes,
		maxRetries: maxRetries,
		log:        logger.With("component", "lookup"),
	}
}

// GetJSON fetches reqURL and decodes the body into v.
// Only bodies that decoded cleanly are memoized.
func (g *Getter) GetJSON(ctx context.Context, kind string, reqURL string, v any) error {
	key := cache.CacheKey(kind, reqURL)
	if g.memo != nil {
		if body, ok := g.memo.Get(key); ok {
			g.log.DebugContext(ctx, "memo hit", slog.String("kind", kind), slog.String("url", reqURL))
			return decodeJSON(body, v)
		}
	}

	body, err := g.getWithRetry(ctx, reqURL)
	if err != nil {
		return err
	}
	if err := decodeJSON(body, v); err != nil {
		return err
	}

	if g.memo != nil {
		_ = g.memo.Set(key, body, g.memoTTL)
	}
	return nil
}

func (g *Getter) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			g.log.WarnContext(ctx, "lookup retry",
				slog.String("url", reqURL),
				slog.Int("attempt", attempt+1),
				slog.String("reason", lastErr.Error()),
			)
			lookupSleepFunc(backoff)
		}

		body, err := g.get(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(ctx, err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (g *Getter) get(ctx context.Context, reqURL string) ([]byte, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, reqURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// isRetryable treats 5xx, 429 and network failures as transient
func isRetryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// NewClientsFromConfig builds both lookup clients on one Getter sharing the limiter and memo
func NewClientsFromConfig(cfg *model.Config, limiter *ratelimit.Limiter, logger *slog.Logger) (*KanjiAPIClient, *JishoClient) {
	var memo cache.Cache
	if cfg.Lookup.MemoEnabled {
		memo = cache.NewMemoryCache(cfg.Lookup.MemoTTL, 2*cfg.Lookup.MemoTTL)
	}

	getter := NewGetter(GetterOptions{
		HTTPClient: NewHTTPClient(cfg.HTTP),
		Limiter:    limiter,
		Memo:       memo,
		MemoTTL:    cfg.Lookup.MemoTTL,
		UserAgent:  cfg.HTTP.UserAgent,
		MaxBytes:   cfg.HTTP.MaxBodyBytes,
		MaxRetries: cfg.Lookup.MaxRetries,
		Logger:     logger,
	})

	return NewKanjiAPIClient(getter, cfg.Lookup.KanjiBaseURL, logger),
		NewJishoClient(getter, cfg.Lookup.WordBaseURL, logger)
}
