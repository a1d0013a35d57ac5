// Package postgres is the Sql storage.Storage backend (spec §4.1): one
// relational schema, queried with sqlx + the shared querybuilder, same
// shape as the teacher's league repository.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/derekfrye/rusty-golf-sub001/internal/corerr"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/event"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/refresh"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
	qb "github.com/derekfrye/rusty-golf-sub001/internal/platform/querybuilder"
)

// Repository is the Sql variant of storage.Storage.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetEventDetails(ctx context.Context, eventID int64) (event.Details, error) {
	query, args, err := qb.Select("*").From("events").Where(qb.Eq("id", eventID)).ToSQL()
	if err != nil {
		return event.Details{}, corerr.Other("build get event details query", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Details{Found: false}, nil
		}
		return event.Details{}, corerr.FromStorageErr("get event details", err)
	}

	return event.Details{
		Found: true,
		Event: event.Event{
			ID:                  row.ID,
			Name:                row.Name,
			ScoreViewStepFactor: row.ScoreViewStepFactor,
			RefreshFromESPN:     row.RefreshFromESPN,
			EndDate:             row.EndDate,
		},
	}, nil
}

// GetAssignments returns assignments in stable (group, eup_id) order (spec
// §4.1); the bettor/golfer names are denormalized onto the assignments
// table at seed time, so no join is needed here.
func (r *Repository) GetAssignments(ctx context.Context, eventID int64) ([]assignment.Assignment, error) {
	query, args, err := qb.Select("*").From("assignments").
		Where(qb.Eq("event_id", eventID)).
		OrderBy("grp", "eup_id").
		ToSQL()
	if err != nil {
		return nil, corerr.Other("build get assignments query", err)
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, corerr.FromStorageErr("select assignments", err)
	}

	out := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		a := assignment.Assignment{
			EupID:        row.EupID,
			EventID:      row.EventID,
			BettorID:     row.BettorID,
			BettorName:   row.BettorName,
			GolferID:     row.GolferID,
			GolferEspnID: row.GolferEspnID,
			GolferName:   row.GolferName,
			Group:        row.Grp,
		}
		if row.ScoreViewStepFactor.Valid {
			v := row.ScoreViewStepFactor.Float64
			a.ScoreViewStepFactor = &v
		}
		out = append(out, a)
	}
	return assignment.ByGroupThenEupID(out), nil
}

func (r *Repository) GetLastRefresh(ctx context.Context, eventID int64) (refresh.Record, bool, error) {
	query, args, err := qb.Select("*").From("last_refresh").Where(qb.Eq("event_id", eventID)).ToSQL()
	if err != nil {
		return refresh.Record{}, false, corerr.Other("build get last refresh query", err)
	}

	var row lastRefreshTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return refresh.Record{}, false, nil
		}
		return refresh.Record{}, false, corerr.FromStorageErr("get last refresh", err)
	}
	return refresh.Record{Timestamp: row.Timestamp, Source: refresh.Source(row.Source)}, true, nil
}

func (r *Repository) PutLastRefresh(ctx context.Context, eventID int64, rec refresh.Record) error {
	query, args, err := qb.InsertInto("last_refresh").
		Columns("event_id", "ts", "source").
		Values(eventID, rec.Timestamp, string(rec.Source)).
		Suffix("ON CONFLICT (event_id) DO UPDATE SET ts = EXCLUDED.ts, source = EXCLUDED.source").
		ToSQL()
	if err != nil {
		return corerr.Other("build put last refresh query", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return corerr.FromStorageErr("put last refresh", err)
	}
	return nil
}

func (r *Repository) GetRawUpstream(ctx context.Context, eventID int64) (json.RawMessage, bool, error) {
	query, args, err := qb.Select("*").From("raw_upstream").Where(qb.Eq("event_id", eventID)).ToSQL()
	if err != nil {
		return nil, false, corerr.Other("build get raw upstream query", err)
	}

	var row rawUpstreamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, corerr.FromStorageErr("get raw upstream", err)
	}
	return json.RawMessage(row.Payload), true, nil
}

func (r *Repository) PutRawUpstream(ctx context.Context, eventID int64, payload json.RawMessage) error {
	query, args, err := qb.InsertInto("raw_upstream").
		Columns("event_id", "payload").
		Values(eventID, []byte(payload)).
		Suffix("ON CONFLICT (event_id) DO UPDATE SET payload = EXCLUDED.payload").
		ToSQL()
	if err != nil {
		return corerr.Other("build put raw upstream query", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return corerr.FromStorageErr("put raw upstream", err)
	}
	return nil
}

func (r *Repository) GetStatistics(ctx context.Context, eventID int64) ([]score.Statistic, error) {
	query, args, err := qb.Select("*").From("statistics").Where(qb.Eq("event_id", eventID)).ToSQL()
	if err != nil {
		return nil, corerr.Other("build get statistics query", err)
	}

	var rows []statisticTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, corerr.FromStorageErr("select statistics", err)
	}

	out := make([]score.Statistic, 0, len(rows))
	for _, row := range rows {
		var stat score.Statistic
		if err := json.Unmarshal(row.Payload, &stat); err != nil {
			return nil, corerr.FromJSONErr("decode statistic payload", err)
		}
		out = append(out, stat)
	}
	return out, nil
}

// PutStatistics implements the atomic per-event replace spec §4.1 requires:
// one transaction deletes the event's existing rows and inserts the new
// set, so no reader observes a partial replace.
func (r *Repository) PutStatistics(ctx context.Context, eventID int64, stats []score.Statistic) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return corerr.FromStorageErr("begin put statistics transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM statistics WHERE event_id = $1", eventID); err != nil {
		return corerr.FromStorageErr("delete existing statistics", err)
	}

	for _, stat := range stats {
		payload, err := json.Marshal(stat)
		if err != nil {
			return corerr.FromJSONErr("encode statistic payload", err)
		}
		insQuery, insArgs, err := qb.InsertInto("statistics").
			Columns("event_id", "eup_id", "payload").
			Values(eventID, stat.EupID, payload).
			ToSQL()
		if err != nil {
			return corerr.Other("build insert statistic query", err)
		}
		if _, err := tx.ExecContext(ctx, insQuery, insArgs...); err != nil {
			return corerr.FromStorageErr("insert statistic", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return corerr.FromStorageErr("commit put statistics transaction", err)
	}
	return nil
}

func (r *Repository) ListEventListings(ctx context.Context) ([]event.Listing, error) {
	query, args, err := qb.Select("id", "name").From("events").OrderBy("id").ToSQL()
	if err != nil {
		return nil, corerr.Other("build list event listings query", err)
	}

	var rows []eventListingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, corerr.FromStorageErr("select event listings", err)
	}

	out := make([]event.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, event.Listing{EventID: row.EventID, Name: row.Name})
	}
	return out, nil
}

func (r *Repository) AuthTokenValid(ctx context.Context, token string) (bool, error) {
	query, args, err := qb.Select("token").From("auth_tokens").Where(qb.Eq("token", token)).ToSQL()
	if err != nil {
		return false, corerr.Other("build auth token valid query", err)
	}

	var found string
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, corerr.FromStorageErr("check auth token", err)
	}
	return true, nil
}
