// Command serverless is the request-handler deployment shape for the golf
// scoreboard API (spec §1 Non-goals carve HTTP routing out of scope here):
// a single Handle entry point, no router, backed by the lighter
// upstream.FetchClient fan-out and the kvobject storage backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/app"
	"github.com/derekfrye/rusty-golf-sub001/internal/config"
	"github.com/derekfrye/rusty-golf-sub001/internal/pipeline"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

// Request is the invocation payload: the same query parameters /scores
// accepts over HTTP (spec §4.9), carried as a plain map since this
// deployment shape has no router or query-string parser of its own.
type Request struct {
	Params map[string]string `json:"params"`
}

// Response is the invocation result: the scoreboard payload, JSON-encoded
// the same way httpapi.scoresResponse is, or an error message on failure.
type Response struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// Handle is the serverless entry point. It builds a fresh handler scoped
// to the invocation (the kvobject backend dials Redis/S3 per cold start;
// callers fronting this with a warm-pool host should hoist the build step
// out of Handle themselves).
func Handle(ctx context.Context, req Request) (Response, error) {
	cfg, err := config.Load()
	if err != nil {
		return Response{}, fmt.Errorf("load config: %w", err)
	}

	store, closer, err := app.NewServerlessStorage(cfg)
	if err != nil {
		return Response{}, fmt.Errorf("build storage backend: %w", err)
	}
	defer func() { _ = closer() }()

	client := app.NewServerlessUpstreamClient(cfg)
	logger := logging.Default()

	now := time.Now
	scoreReq, err := pipeline.DecodeScoreRequest(ctx, req.Params, store, now)
	if err != nil {
		return errorResponse(400, err), nil
	}

	scoreCtx, err := pipeline.LoadScoresData(ctx, store, client, scoreReq.EventID, scoreReq.Year, scoreReq.UseCache, scoreReq.CacheMaxAge, now)
	if err != nil {
		logger.ErrorContext(ctx, "serverless load_scores_data failed", "event_id", scoreReq.EventID, "error", err)
		return errorResponse(500, err), nil
	}

	body, err := json.Marshal(struct {
		EventID     int64                   `json:"event_id"`
		Year        int                     `json:"year"`
		Ranked      []pipeline.RankedBettor `json:"scoreboard"`
		LastRefresh time.Time               `json:"last_refresh"`
	}{
		EventID:     scoreCtx.EventID,
		Year:        scoreCtx.Year,
		Ranked:      scoreCtx.Ranked,
		LastRefresh: scoreCtx.LastRefresh.Timestamp,
	})
	if err != nil {
		return errorResponse(500, err), nil
	}

	return Response{StatusCode: 200, Body: body}, nil
}

func errorResponse(status int, err error) Response {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return Response{StatusCode: status, Body: body}
}

func main() {
	// Entry point kept deliberately thin (spec §1 Non-goals: no framework
	// dependency here); a real deployment wires Handle into whatever
	// serverless host's request/response shape applies at build time.
}
