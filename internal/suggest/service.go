package suggest

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/varnamer/api/internal/middleware"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyQuery is returned when the request has no query text
var ErrEmptyQuery = errors.New("query is required")

// Invoker performs one webhook call and returns the decoded JSON body
type Invoker interface {
	Invoke(ctx context.Context, query string) (any, error)
}

type Config struct {
	// MaxRetries is the number of webhook attempts; 0 answers from the
	// fallback rules only
	MaxRetries int
	CacheTTL   time.Duration
	// Backoff returns the wait after the n-th failed attempt (n starts at 1)
	Backoff func(failures int) time.Duration
	Logger  *slog.Logger
}

// ExponentialBackoff waits 2^n seconds after the n-th failure
func ExponentialBackoff(failures int) time.Duration {
	return time.Duration(math.Pow(2, float64(failures))) * time.Second
}

// Service resolves suggestion requests through the cache, the webhook and
// the fallback rules, in that order
type Service struct {
	invoker    Invoker
	cache      *cache.Cache
	maxRetries int
	backoff    func(int) time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(invoker Invoker, cfg Config) *Service {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Backoff == nil {
		cfg.Backoff = ExponentialBackoff
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		invoker:    invoker,
		cache:      cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		logger:     cfg.Logger.With("service", "suggest"),
		now:        time.Now,
	}
}

// Normalize trims and NFC-normalizes the query and applies the default language
func (r Request) Normalize() Request {
	r.Query = norm.NFC.String(strings.TrimSpace(r.Query))
	r.Context = norm.NFC.String(r.Context)
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

// CacheKey identifies a request in the suggestion cache
func (r Request) CacheKey() string {
	return r.Query + "-" + r.Context + "-" + r.Language
}

// Suggest returns suggestions for req. Webhook results (including parsed-empty
// ones answered with fallback rules) are cached; results produced after every
// attempt failed are not. A context canceled before a result is produced
// returns the context error.
func (s *Service) Suggest(ctx context.Context, req Request) (*Result, error) {
	req = req.Normalize()
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}

	key := req.CacheKey()
	if cached, found := s.cache.Get(key); found {
		if resp, ok := cached.(*Response); ok {
			s.logger.Debug("suggestion cache hit", "cache_key", key)
			middleware.RecordSuggestionSource(string(SourceCache))
			return &Result{Response: resp, Source: SourceCache}, nil
		}
	}

	start := s.now()
	attempts := 0
	var lastErr error

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		attempts = attempt
		callStart := s.now()
		data, err := s.invoker.Invoke(ctx, req.Query)
		middleware.RecordRAGWebhookCall(err == nil, s.now().Sub(callStart))

		if err == nil {
			suggestions := ParseWebhookResponse(data)
			if len(suggestions) == 0 {
				s.logger.Warn("webhook response had no usable suggestions",
					"query", req.Query)
				suggestions = Fallback(req.Query)
			}

			resp := &Response{
				Suggestions: suggestions,
				Metadata: Metadata{
					RagVersion:   RagVersion,
					ResponseTime: s.now().Sub(start).Milliseconds(),
				},
			}
			s.cache.Set(key, resp, cache.DefaultExpiration)
			middleware.RecordSuggestionSource(string(SourceWebhook))
			return &Result{Response: resp, Source: SourceWebhook, Attempts: attempt}, nil
		}

		lastErr = err
		s.logger.Warn("webhook call failed",
			"query", req.Query,
			"attempt", attempt,
			"max_attempts", s.maxRetries,
			"error", err)

		if attempt < s.maxRetries {
			if err := sleep(ctx, s.backoff(attempt)); err != nil {
				lastErr = err
				break
			}
		}
	}

	if err := ctx.Err(); err != nil {
		s.logger.Warn("suggestion request canceled",
			"query", req.Query,
			"attempts", attempts,
			"error", err)
		return nil, err
	}

	if s.maxRetries == 0 {
		s.logger.Debug("webhook disabled, using fallback rules", "query", req.Query)
	} else {
		s.logger.Error("all webhook attempts failed, using fallback rules",
			"query", req.Query,
			"error", lastErr)
	}

	resp := &Response{
		Suggestions: Fallback(req.Query),
		Metadata: Metadata{
			RagVersion:   FallbackVersion,
			ResponseTime: s.now().Sub(start).Milliseconds(),
		},
	}
	middleware.RecordSuggestionSource(string(SourceFallback))
	return &Result{Response: resp, Source: SourceFallback, Attempts: attempts}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
