package kvobject

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/derekfrye/rusty-golf-sub001/internal/corerr"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/event"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/refresh"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

// Repository is the KvObject variant of storage.LockingStorage.
type Repository struct {
	redis   *redis.Client
	objects ObjectStore
	logger  *logging.Logger
	now     func() time.Time
}

func NewRepository(redisClient *redis.Client, objects ObjectStore, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{redis: redisClient, objects: objects, logger: logger, now: time.Now}
}

func (r *Repository) GetEventDetails(ctx context.Context, eventID int64) (event.Details, error) {
	var doc EventDetailsDoc
	found, err := r.getJSON(ctx, detailsKey(eventID), &doc)
	if err != nil {
		return event.Details{}, err
	}
	if !found {
		return event.Details{Found: false}, nil
	}
	return event.Details{
		Found: true,
		Event: event.Event{
			ID:                  eventID,
			Name:                doc.Name,
			ScoreViewStepFactor: doc.ScoreViewStepFactor,
			RefreshFromESPN:     doc.RefreshFromESPN,
			EndDate:             doc.EndDate,
		},
	}, nil
}

func (r *Repository) GetAssignments(ctx context.Context, eventID int64) ([]assignment.Assignment, error) {
	var docs []GolferAssignmentDoc
	found, err := r.getJSON(ctx, golfersKey(eventID), &docs)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	out := make([]assignment.Assignment, 0, len(docs))
	for _, d := range docs {
		out = append(out, assignment.Assignment{
			EupID:               d.EupID,
			EventID:             eventID,
			BettorID:            d.BettorID,
			BettorName:          d.BettorName,
			GolferID:            d.GolferID,
			GolferEspnID:        d.GolferEspnID,
			GolferName:          d.GolferName,
			Group:               d.Group,
			ScoreViewStepFactor: d.ScoreViewStepFactor,
		})
	}
	return assignment.ByGroupThenEupID(out), nil
}

func (r *Repository) GetLastRefresh(ctx context.Context, eventID int64) (refresh.Record, bool, error) {
	var doc LastRefreshDoc
	found, err := r.getJSON(ctx, lastRefreshKey(eventID), &doc)
	if err != nil || !found {
		return refresh.Record{}, false, err
	}
	return refresh.Record{Timestamp: doc.Timestamp, Source: refresh.Source(doc.Source)}, true, nil
}

func (r *Repository) PutLastRefresh(ctx context.Context, eventID int64, rec refresh.Record) error {
	doc := LastRefreshDoc{Timestamp: rec.Timestamp, Source: string(rec.Source)}
	return r.putJSON(ctx, lastRefreshKey(eventID), doc)
}

func (r *Repository) GetRawUpstream(ctx context.Context, eventID int64) (json.RawMessage, bool, error) {
	body, found, err := r.objects.GetObject(ctx, rawUpstreamObjectKey(eventID))
	if err != nil {
		return nil, false, corerr.FromStorageErr("get raw upstream blob", err)
	}
	if !found {
		return nil, false, nil
	}
	return json.RawMessage(body), true, nil
}

func (r *Repository) PutRawUpstream(ctx context.Context, eventID int64, payload json.RawMessage) error {
	if err := r.objects.PutObject(ctx, rawUpstreamObjectKey(eventID), payload); err != nil {
		return corerr.FromStorageErr("put raw upstream blob", err)
	}
	return nil
}

// GetStatistics follows the scores_pointer indirection (spec §4.1
// Atomicity): the pointer key names the current blob version.
func (r *Repository) GetStatistics(ctx context.Context, eventID int64) ([]score.Statistic, error) {
	pointer, err := r.redis.Get(ctx, scoresPointerKey(eventID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, corerr.FromStorageErr("get scores pointer", err)
	}

	body, found, err := r.objects.GetObject(ctx, pointer)
	if err != nil {
		return nil, corerr.FromStorageErr("get scores blob", err)
	}
	if !found {
		return nil, nil
	}

	var stats []score.Statistic
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, corerr.FromJSONErr("decode scores blob", err)
	}
	return stats, nil
}

// PutStatistics writes the new blob, then flips the pointer key last
// (spec §4.1 Atomicity: "on KV, write the new blob then flip a single
// pointer key last"), so no reader ever observes a partial replace.
func (r *Repository) PutStatistics(ctx context.Context, eventID int64, stats []score.Statistic) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return corerr.FromJSONErr("encode scores blob", err)
	}

	key := scoresObjectKey(eventID, r.now().UnixNano())
	if err := r.objects.PutObject(ctx, key, payload); err != nil {
		return corerr.FromStorageErr("put scores blob", err)
	}

	if err := r.redis.Set(ctx, scoresPointerKey(eventID), key, 0).Err(); err != nil {
		return corerr.FromStorageErr("flip scores pointer", err)
	}
	return nil
}

func (r *Repository) ListEventListings(ctx context.Context) ([]event.Listing, error) {
	var cursor uint64
	out := make([]event.Listing, 0)
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, "event:*:details", 100).Result()
		if err != nil {
			return nil, corerr.FromStorageErr("scan event details keys", err)
		}
		for _, key := range keys {
			eventID, ok := eventIDFromDetailsKey(key)
			if !ok {
				continue
			}
			var doc EventDetailsDoc
			found, err := r.getJSON(ctx, key, &doc)
			if err != nil || !found {
				continue
			}
			out = append(out, event.Listing{EventID: eventID, Name: doc.Name})
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (r *Repository) AuthTokenValid(ctx context.Context, token string) (bool, error) {
	var cursor uint64
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, "event:*:auth_tokens", 100).Result()
		if err != nil {
			return false, corerr.FromStorageErr("scan auth token keys", err)
		}
		for _, key := range keys {
			var doc AuthTokensDoc
			found, err := r.getJSON(ctx, key, &doc)
			if err != nil || !found {
				continue
			}
			for _, t := range doc.Tokens {
				if t == token {
					return true, nil
				}
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return false, nil
}

func (r *Repository) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, corerr.FromStorageErr("get "+key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, corerr.FromJSONErr("decode "+key, err)
	}
	return true, nil
}

func (r *Repository) putJSON(ctx context.Context, key string, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return corerr.FromJSONErr("encode "+key, err)
	}
	if err := r.redis.Set(ctx, key, raw, 0).Err(); err != nil {
		return corerr.FromStorageErr("put "+key, err)
	}
	return nil
}

func (r *Repository) bumpSeededAt(ctx context.Context, eventID int64, kind string) error {
	return r.putJSON(ctx, seededAtKey(eventID, kind), SeededAtDoc{SeededAt: r.now()})
}

// SeedEvent writes the full per-event document family in one call (spec §6
// admin seed ingestion, §9 idempotence): event details, the golfer
// assignment sequence, any player-factor overrides, auth tokens, the raw
// upstream blob, and an optional last-refresh record. Each kind's
// seeded_at marker is bumped last so a concurrent reader never observes a
// bumped marker before its document.
func (r *Repository) SeedEvent(ctx context.Context, seed storage.EventSeed) error {
	detailsDoc := EventDetailsDoc{
		Name:                seed.Event.Name,
		ScoreViewStepFactor: seed.Event.ScoreViewStepFactor,
		RefreshFromESPN:     seed.Event.RefreshFromESPN,
		EndDate:             seed.Event.EndDate,
	}
	if err := r.putJSON(ctx, detailsKey(seed.EventID), detailsDoc); err != nil {
		return err
	}
	if err := r.bumpSeededAt(ctx, seed.EventID, "details"); err != nil {
		return err
	}

	golferDocs := make([]GolferAssignmentDoc, 0, len(seed.Assignments))
	for _, a := range seed.Assignments {
		golferDocs = append(golferDocs, GolferAssignmentDoc{
			EupID:               a.EupID,
			BettorID:            a.BettorID,
			BettorName:          a.BettorName,
			GolferID:            a.GolferID,
			GolferEspnID:        a.GolferEspnID,
			GolferName:          a.GolferName,
			Group:               a.Group,
			ScoreViewStepFactor: a.ScoreViewStepFactor,
		})
	}
	if err := r.putJSON(ctx, golfersKey(seed.EventID), golferDocs); err != nil {
		return err
	}
	if err := r.bumpSeededAt(ctx, seed.EventID, "golfers"); err != nil {
		return err
	}

	if len(seed.PlayerFactors) > 0 {
		factorDocs := make([]PlayerFactorDoc, 0, len(seed.PlayerFactors))
		for _, f := range seed.PlayerFactors {
			factorDocs = append(factorDocs, PlayerFactorDoc{
				GolferEspnID:        f.GolferEspnID,
				ScoreViewStepFactor: f.ScoreViewStepFactor,
			})
		}
		if err := r.putJSON(ctx, playerFactorsKey(seed.EventID), factorDocs); err != nil {
			return err
		}
		if err := r.bumpSeededAt(ctx, seed.EventID, "player_factors"); err != nil {
			return err
		}
	}

	if len(seed.AuthTokens) > 0 {
		if err := r.putJSON(ctx, authTokensKey(seed.EventID), AuthTokensDoc{Tokens: seed.AuthTokens}); err != nil {
			return err
		}
		if err := r.bumpSeededAt(ctx, seed.EventID, "auth_tokens"); err != nil {
			return err
		}
	}

	if len(seed.RawUpstream) > 0 {
		if err := r.objects.PutObject(ctx, rawUpstreamObjectKey(seed.EventID), seed.RawUpstream); err != nil {
			return corerr.FromStorageErr("put seed raw upstream blob", err)
		}
		if err := r.bumpSeededAt(ctx, seed.EventID, "raw_upstream"); err != nil {
			return err
		}
	}

	if seed.LastRefresh != nil {
		if err := r.PutLastRefresh(ctx, seed.EventID, *seed.LastRefresh); err != nil {
			return err
		}
		if err := r.bumpSeededAt(ctx, seed.EventID, "last_refresh"); err != nil {
			return err
		}
	}

	return nil
}

var _ storage.LockingStorage = (*Repository)(nil)

func eventIDFromDetailsKey(key string) (int64, bool) {
	var id int64
	n, err := fmt.Sscanf(key, "event:%d:details", &id)
	if err != nil || n != 1 {
		return 0, false
	}
	return id, true
}
