package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

// Option customizes a provider adapter.
type Option func(*adapter)

// WithBaseURL points the adapter at a different API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(a *adapter) { a.baseURL = u }
}

// WithBackoff overrides the retry policy.
func WithBackoff(b BackoffConfig) Option {
	return func(a *adapter) { a.httpCfg.Backoff = b }
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
	errMissingAPIKey = errors.New("api key is not configured")
)

var defaultBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: 300 * time.Millisecond,
	MaxInterval:     3 * time.Second,
}

// adapter carries what every provider needs: identity, credentials, endpoint
// and the resilient HTTP plumbing.
type adapter struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func newAdapter(name, baseURL, apiKey string, client *http.Client, opts []Option) adapter {
	if client == nil {
		client = http.DefaultClient
	}
	a := adapter{
		name:    name,
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client, Backoff: defaultBackoff},
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
	return a
}

// Name returns the provider label used as the snapshot source.
func (a *adapter) Name() string {
	return a.name
}

// getJSON issues a GET through the resilient client and decodes the body into out.
func (a *adapter) getJSON(ctx context.Context, endpoint string, out any) error {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, endpoint, nil)
	}

	resp, err := doRequestWithResilience(ctx, a.httpCfg, a.circuit, buildRequest)
	if err != nil {
		return fmt.Errorf("%s: %w", a.name, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", a.name, err)
	}
	return nil
}

// doRequestWithResilience executes the HTTP request with retries, exponential backoff,
// and a circuit breaker.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if statusErr := classifyStatus(resp.StatusCode); statusErr != nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil, statusErr
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		// Client errors will not improve on retry.
		if errors.Is(err, errUnexpected) || attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if cfg.Backoff.MaxInterval > 0 && delay > cfg.Backoff.MaxInterval {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return errRateLimited
	case code >= 500:
		return fmt.Errorf("%w: %d", errServerError, code)
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", errUnexpected, code)
	}
	return nil
}

// msToKmh converts wind speeds reported in m/s.
func msToKmh(v float64) float64 {
	return v * 3.6
}
