// Package upstream is the polymorphic client abstraction over the
// sports-data provider (spec §4.3). It carries two implementations: a
// pooled blocking-HTTP client for the long-running server deployment
// shape, and a lighter fetch-style client for the serverless shape.
package upstream

import (
	"context"
	"fmt"
)

// DefaultFanOut is the reference fan-out width (spec §4.3, §9): up to this
// many outbound requests in flight at once. Exceeding it risks
// upstream rate-limiting and is part of the contract, not a free perf knob.
const DefaultFanOut = 6

// GolferRequest is one (eup_id, espn_id) pair to fetch a player summary for.
type GolferRequest struct {
	EupID  int64
	EspnID int64
}

// PlayerJSONResponse carries two parallel sequences: Data (per-golfer JSON
// maps) and EupIDs (the assignment id each map belongs to). Only entries
// whose decoded object contains a top-level "rounds" key are kept (spec
// §4.3); network/parse failure on any single request fails the whole batch.
type PlayerJSONResponse struct {
	Data   []map[string]any
	EupIDs []int64
}

// Client is the capability every backend implements.
type Client interface {
	FetchPlayerSummary(ctx context.Context, golfers []GolferRequest, year int, eventID int64) (PlayerJSONResponse, error)
}

func summaryURL(eventID int64, year int, espnID int64) string {
	return fmt.Sprintf(
		"https://site.web.api.espn.com/apis/site/v2/sports/golf/pga/leaderboard/%d/playersummary?season=%d&player=%d",
		eventID, year, espnID,
	)
}
