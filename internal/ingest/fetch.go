package ingest

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// defaultHeaders mirrors what a browser sends alongside the rotated
// User-Agent so export endpoints treat us like an ordinary client.
var defaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.8",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"DNT":             "1",
	"Connection":      "keep-alive",
}

// DefaultUserAgents is the stock identity rotation pool.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// FetcherConfig holds the HTTP client knobs.
type FetcherConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst"`
	BreakerMaxFail uint32        `yaml:"breaker_max_failures"`
	BreakerCooloff time.Duration `yaml:"breaker_cooloff"`
	UserAgents     []string      `yaml:"user_agents"`
}

// DefaultFetcherConfig returns sensible defaults.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:        20 * time.Second,
		RatePerSecond:  1.0,
		RateBurst:      2,
		BreakerMaxFail: 5,
		BreakerCooloff: 60 * time.Second,
		UserAgents:     DefaultUserAgents,
	}
}

// HTTPFetcher issues outbound GETs with a rotating client identity,
// per-host rate limiting, and a circuit breaker around the transport.
// It never retries within a single Fetch; fallback is the pipeline's
// job.
type HTTPFetcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	agents  []string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
	lastUA   int
}

// NewHTTPFetcher builds a fetcher from config. An empty agent pool
// falls back to the stock pool.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	agents := cfg.UserAgents
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "newswatch-fetch",
			Timeout: cfg.BreakerCooloff,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.BreakerMaxFail
			},
		}),
		agents:   agents,
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(cfg.RatePerSecond),
		burst:    cfg.RateBurst,
		lastUA:   -1,
	}
}

// Fetch retrieves one URL. Transport failures, timeouts, and non-2xx
// statuses all surface as *NetworkError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.waitHost(ctx, rawURL); err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}

	body, err := f.breaker.Execute(func() (interface{}, error) {
		return f.get(ctx, rawURL)
	})
	if err != nil {
		if ne, ok := err.(*NetworkError); ok {
			return nil, ne
		}
		// Breaker open counts as a transport failure.
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	return body.([]byte), nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", f.nextAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("url", rawURL).Int("status", resp.StatusCode).Msg("fetch rejected")
		return nil, &NetworkError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	return body, nil
}

// nextAgent picks a random pool entry, never repeating the previous
// pick when the pool has at least two identities.
func (f *HTTPFetcher) nextAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.agents) == 1 {
		return f.agents[0]
	}
	idx := rand.Intn(len(f.agents))
	for idx == f.lastUA {
		idx = rand.Intn(len(f.agents))
	}
	f.lastUA = idx
	return f.agents[idx]
}

func (f *HTTPFetcher) waitHost(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	f.mu.Lock()
	lim, ok := f.limiters[u.Host]
	if !ok {
		lim = rate.NewLimiter(f.perHost, f.burst)
		f.limiters[u.Host] = lim
	}
	f.mu.Unlock()
	return lim.Wait(ctx)
}
