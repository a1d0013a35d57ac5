package upstream

import (
	"context"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"github.com/derekfrye/rusty-golf-sub001/internal/corerr"
)

// FetchClientConfig configures the serverless-shape client. It has no
// retry/circuit-breaker machinery: a serverless invocation is itself
// retried by its host on failure, so duplicating that here would only add
// latency (mirrors original_source/serverless/src/espn_client.rs, which is
// a thin futures::stream fan-out with no resilience layer of its own).
type FetchClientConfig struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	FanOut     int
}

// FetchClient is the lighter upstream backend for the serverless
// deployment shape: one goroutine per in-flight request, bounded by a
// semaphore sized to FanOut (spec §4.3, reference width 6), no pooling.
type FetchClient struct {
	httpClient *http.Client
	fanOut     int
}

func NewFetchClient(cfg FetchClientConfig) *FetchClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}
	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}
	return &FetchClient{httpClient: httpClient, fanOut: fanOut}
}

func (c *FetchClient) FetchPlayerSummary(ctx context.Context, golfers []GolferRequest, year int, eventID int64) (PlayerJSONResponse, error) {
	if len(golfers) == 0 {
		return PlayerJSONResponse{}, nil
	}

	type slot struct {
		eupID int64
		doc   map[string]any
		ok    bool
	}
	slots := make([]slot, len(golfers))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(c.fanOut)

	for i, g := range golfers {
		i, g := i, g
		group.Go(func() error {
			doc, ok, err := c.fetchOne(gctx, g, year, eventID)
			if err != nil {
				return err
			}
			slots[i] = slot{eupID: g.EupID, doc: doc, ok: ok}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return PlayerJSONResponse{}, err
	}

	out := PlayerJSONResponse{
		Data:   make([]map[string]any, 0, len(golfers)),
		EupIDs: make([]int64, 0, len(golfers)),
	}
	for _, s := range slots {
		if !s.ok {
			continue
		}
		out.Data = append(out.Data, s.doc)
		out.EupIDs = append(out.EupIDs, s.eupID)
	}
	return out, nil
}

func (c *FetchClient) fetchOne(ctx context.Context, g GolferRequest, year int, eventID int64) (map[string]any, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, summaryURL(eventID, year, g.EspnID), nil)
	if err != nil {
		return nil, false, corerr.Network("build upstream request", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, corerr.Network("fetch player summary", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, false, corerr.Network("read upstream response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, corerr.Network("upstream status", nil)
	}

	var doc map[string]any
	if err := jsoniter.Unmarshal(raw, &doc); err != nil {
		return nil, false, corerr.Network("decode player summary", err)
	}

	if _, hasRounds := doc["rounds"]; !hasRounds {
		return nil, false, nil
	}
	return doc, true, nil
}
