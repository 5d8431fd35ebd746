package fetch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCacheTTL is how long an extracted posting is reused.
const DefaultCacheTTL = time.Hour

// Fetcher fetches job descriptions with platform-aware extraction, an
// optional browser fallback and an in-memory TTL cache keyed by URL.
type Fetcher struct {
	opts     *Options
	renderer Renderer
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string]*Result
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithOptions sets HTTP options.
func WithOptions(o *Options) Option { return func(f *Fetcher) { f.opts = o } }

// WithRenderer enables the browser fallback for short pages.
func WithRenderer(r Renderer) Option { return func(f *Fetcher) { f.renderer = r } }

// WithCacheTTL sets the cache lifetime; zero disables caching.
func WithCacheTTL(ttl time.Duration) Option { return func(f *Fetcher) { f.ttl = ttl } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher builds a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		opts:   DefaultOptions(),
		ttl:    DefaultCacheTTL,
		now:    time.Now,
		logger: zap.NewNop(),
		cache:  make(map[string]*Result),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// JobDescription fetches urlStr and extracts the posting text.
func (f *Fetcher) JobDescription(ctx context.Context, urlStr string) (*Result, error) {
	if r := f.cached(urlStr); r != nil {
		f.logger.Debug("job description cache hit", zap.String("url", urlStr))
		return r, nil
	}

	res, err := URL(ctx, urlStr, f.opts)
	if err != nil {
		return nil, err
	}
	res.Platform = DetectPlatform(urlStr)
	if res.Text, err = ExtractMainText(res.HTML, ContentSelectors(res.Platform), NoiseSelectors(res.Platform)...); err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if NeedsBrowser(res.Text) && f.renderer != nil {
		f.logger.Info("extracted text too short, rendering in browser",
			zap.String("url", urlStr), zap.Int("chars", len(res.Text)))
		if err := f.render(ctx, res); err != nil {
			f.logger.Warn("browser fallback failed", zap.String("url", urlStr), zap.Error(err))
		}
	}

	if res.Text == "" {
		return nil, &Error{URL: urlStr, Message: "no text content found"}
	}

	res.FetchedAt = f.now()
	f.store(res)
	return res, nil
}

func (f *Fetcher) render(ctx context.Context, res *Result) error {
	html, err := f.renderer(ctx, res.URL)
	if err != nil {
		return err
	}
	text, err := ExtractMainText(html, ContentSelectors(res.Platform), NoiseSelectors(res.Platform)...)
	if err != nil {
		return err
	}
	if len(text) > len(res.Text) {
		res.HTML, res.Text, res.Rendered = html, text, true
	}
	return nil
}

func (f *Fetcher) cached(urlStr string) *Result {
	if f.ttl <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.cache[urlStr]
	if !ok {
		return nil
	}
	if f.now().Sub(r.FetchedAt) > f.ttl {
		delete(f.cache, urlStr)
		return nil
	}
	return r
}

func (f *Fetcher) store(r *Result) {
	if f.ttl <= 0 {
		return
	}
	f.mu.Lock()
	f.cache[r.URL] = r
	f.mu.Unlock()
}
