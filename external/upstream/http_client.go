package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/derekfrye/rusty-golf-sub001/internal/corerr"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/resilience"
)

var errUpstreamTransient = errors.New("upstream transient failure")

type HTTPClientConfig struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	FanOut         int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// HTTPClient is the blocking-HTTP backend for the Client interface, pooled
// with an ants worker pool sized to FanOut so requests for a single
// refresh never exceed the concurrency ceiling (spec §4.3, §9).
type HTTPClient struct {
	httpClient     *http.Client
	maxRetries     int
	fanOut         int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &HTTPClient{
		httpClient:     httpClient,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		fanOut:         fanOut,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchPlayerSummary fans requests out across an ants pool bounded to
// FanOut, then reassembles the kept results: each kept entry's position in
// Data corresponds to the same position in EupIDs (spec §4.3); the only
// required invariant is intra-response alignment, not input order.
func (c *HTTPClient) FetchPlayerSummary(ctx context.Context, golfers []GolferRequest, year int, eventID int64) (PlayerJSONResponse, error) {
	if len(golfers) == 0 {
		return PlayerJSONResponse{}, nil
	}

	pool, err := ants.NewPool(c.fanOut, ants.WithNonblocking(false))
	if err != nil {
		return PlayerJSONResponse{}, corerr.Other("build upstream fan-out pool", err)
	}
	defer pool.Release()

	type result struct {
		eupID int64
		doc   map[string]any
		ok    bool
	}

	results := make([]result, len(golfers))
	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	for i, g := range golfers {
		i, g := i, g
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			doc, ok, fetchErr := c.fetchOne(ctx, g, year, eventID)
			if fetchErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fetchErr
				}
				mu.Unlock()
				return
			}
			results[i] = result{eupID: g.EupID, doc: doc, ok: ok}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = corerr.Network("submit upstream fetch", submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return PlayerJSONResponse{}, firstErr
	}

	out := PlayerJSONResponse{
		Data:   make([]map[string]any, 0, len(golfers)),
		EupIDs: make([]int64, 0, len(golfers)),
	}
	for _, r := range results {
		if !r.ok {
			continue
		}
		out.Data = append(out.Data, r.doc)
		out.EupIDs = append(out.EupIDs, r.eupID)
	}
	return out, nil
}

// fetchOne performs one GET and reports (doc, included, err). included is
// false, with a nil error, when the decoded object lacks a "rounds" key
// (spec §4.3: "silently omitted").
func (c *HTTPClient) fetchOne(ctx context.Context, g GolferRequest, year int, eventID int64) (map[string]any, bool, error) {
	raw, err := c.doJSON(ctx, summaryURL(eventID, year, g.EspnID))
	if err != nil {
		return nil, false, corerr.Network("fetch player summary", err)
	}

	// Spec §4.3: network AND parse failures on a single request both fail
	// the whole batch as CoreError::Network, not Parse.
	var doc map[string]any
	if err := jsoniter.Unmarshal(raw, &doc); err != nil {
		return nil, false, corerr.Network("decode player summary", err)
	}

	if _, hasRounds := doc["rounds"]; !hasRounds {
		return nil, false, nil
	}
	return doc, true, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "upstream circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: upstream temporarily unavailable", errUpstreamTransient)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *HTTPClient) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errUpstreamTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errUpstreamTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d", errUpstreamTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("upstream status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("upstream request failed")
	}
	c.logger.WarnContext(ctx, "upstream request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
