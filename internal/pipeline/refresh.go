// Package pipeline hosts the pure and storage/upstream-orchestrating score
// pipeline: TTL policy, score parsing, aggregation/ranking, and the
// load_scores_data / load_score_context refresh algorithm (spec §4.2-§4.6).
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/derekfrye/rusty-golf-sub001/internal/corerr"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/refresh"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"

	"github.com/derekfrye/rusty-golf-sub001/external/upstream"
)

// ScoreContext is the result of load_scores_data / load_score_context (spec
// §4.6): everything a view needs to render the scoreboard for one event.
type ScoreContext struct {
	EventID     int64
	Year        int
	Assignments []assignment.Assignment
	Statistics  []score.Statistic
	Scored      []ScoredAssignment
	Ranked      []RankedBettor
	LastRefresh refresh.Record
}

// LoadScoresData implements spec §4.6's algorithm. now is injected so tests
// can control freshness deterministically.
func LoadScoresData(
	ctx context.Context,
	store storage.Storage,
	client upstream.Client,
	eventID int64,
	year int,
	useCache bool,
	cacheMaxAge int64,
	now func() time.Time,
) (ScoreContext, error) {
	assignments, err := store.GetAssignments(ctx, eventID)
	if err != nil {
		return ScoreContext{}, err
	}

	lastRefresh, hasLastRefresh, err := store.GetLastRefresh(ctx, eventID)
	if err != nil {
		return ScoreContext{}, err
	}

	fresh := IsFresh(useCache, hasLastRefresh, lastRefresh.Timestamp, cacheMaxAge, now())

	var stats []score.Statistic
	if fresh {
		stats, err = store.GetStatistics(ctx, eventID)
		if err != nil {
			return ScoreContext{}, err
		}
	} else {
		stats, lastRefresh, err = refreshFromUpstream(ctx, store, client, eventID, year, assignments, now)
		if err != nil {
			return ScoreContext{}, err
		}
	}

	return buildContext(eventID, year, assignments, stats, lastRefresh), nil
}

// refreshFromUpstream is spec §4.6 step 4: fetch, parse, and persist the
// write group (raw upstream, statistics, last_refresh). All three writes
// are attempted; the ordering guarantee is that they complete, in this
// order, before the caller observes the new context (spec §4.6 "Ordering
// guarantee"). A failed write is reported, not retried here — the next
// refresh overwrites whatever was left in an inconsistent state.
func refreshFromUpstream(
	ctx context.Context,
	store storage.Storage,
	client upstream.Client,
	eventID int64,
	year int,
	assignments []assignment.Assignment,
	now func() time.Time,
) ([]score.Statistic, refresh.Record, error) {
	golfers := make([]upstream.GolferRequest, 0, len(assignments))
	for _, a := range assignments {
		golfers = append(golfers, upstream.GolferRequest{EupID: a.EupID, EspnID: a.GolferEspnID})
	}

	resp, err := client.FetchPlayerSummary(ctx, golfers, year, eventID)
	if err != nil {
		return nil, refresh.Record{}, err
	}

	stats := make([]score.Statistic, 0, len(resp.EupIDs))
	for i, eupID := range resp.EupIDs {
		stats = append(stats, ParseStatistic(eupID, resp.Data[i]))
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, refresh.Record{}, corerr.FromJSONErr("marshal raw upstream payload", err)
	}

	rec := refresh.Record{Timestamp: now(), Source: refresh.SourceUpstream}

	var writeErr error
	if err := store.PutRawUpstream(ctx, eventID, raw); err != nil {
		writeErr = errors.Wrap(err, "put raw upstream")
		logging.Default().WarnContext(ctx, "refresh write group: put_raw_upstream failed", "event_id", eventID, "error", err)
	}
	if err := store.PutStatistics(ctx, eventID, stats); err != nil {
		writeErr = errors.Wrap(err, "put statistics")
		logging.Default().WarnContext(ctx, "refresh write group: put_statistics failed", "event_id", eventID, "error", err)
	}
	if err := store.PutLastRefresh(ctx, eventID, rec); err != nil {
		writeErr = errors.Wrap(err, "put last refresh")
		logging.Default().WarnContext(ctx, "refresh write group: put_last_refresh failed", "event_id", eventID, "error", err)
	}
	if writeErr != nil {
		return stats, rec, writeErr
	}

	return stats, rec, nil
}

func buildContext(eventID int64, year int, assignments []assignment.Assignment, stats []score.Statistic, lastRefresh refresh.Record) ScoreContext {
	byEup := make(map[int64]score.Statistic, len(stats))
	for _, s := range stats {
		byEup[s.EupID] = s
	}

	scored := make([]ScoredAssignment, 0, len(assignments))
	totalsByBettor := make(map[string]int)
	bettorOrder := make([]string, 0)
	for _, a := range assignments {
		stat, ok := byEup[a.EupID]
		if !ok {
			continue
		}
		scored = append(scored, ScoredAssignment{Assignment: a, Statistic: stat})
		if _, seen := totalsByBettor[a.BettorName]; !seen {
			bettorOrder = append(bettorOrder, a.BettorName)
		}
		totalsByBettor[a.BettorName] += stat.TotalScore
	}

	bettorTotals := make([]BettorTotal, 0, len(bettorOrder))
	for _, name := range bettorOrder {
		bettorTotals = append(bettorTotals, BettorTotal{BettorName: name, TotalScore: totalsByBettor[name]})
	}

	return ScoreContext{
		EventID:     eventID,
		Year:        year,
		Assignments: assignments,
		Statistics:  stats,
		Scored:      scored,
		Ranked:      ScoreboardRanking(bettorTotals),
		LastRefresh: lastRefresh,
	}
}
