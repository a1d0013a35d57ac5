// Package storage defines the single capability-set interface that both
// storage backends (SQL and KV+object-store) satisfy (spec §4.1). It
// intentionally has no knowledge of Postgres, Redis, or S3 — those live in
// internal/infrastructure/repository/*.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/event"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/lock"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/refresh"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
)

// Storage is the capability set every backend implements (spec §4.1).
// Every method fails with a *corerr.CoreError on I/O or encoding error and
// never panics.
type Storage interface {
	GetEventDetails(ctx context.Context, eventID int64) (event.Details, error)
	GetAssignments(ctx context.Context, eventID int64) ([]assignment.Assignment, error)
	GetLastRefresh(ctx context.Context, eventID int64) (refresh.Record, bool, error)
	PutLastRefresh(ctx context.Context, eventID int64, rec refresh.Record) error
	GetRawUpstream(ctx context.Context, eventID int64) (json.RawMessage, bool, error)
	PutRawUpstream(ctx context.Context, eventID int64, payload json.RawMessage) error
	GetStatistics(ctx context.Context, eventID int64) ([]score.Statistic, error)
	// PutStatistics atomically replaces the full per-eup_id statistics set
	// for the event (spec §4.1 Atomicity): no reader observes a partial
	// replace.
	PutStatistics(ctx context.Context, eventID int64, stats []score.Statistic) error
	ListEventListings(ctx context.Context) ([]event.Listing, error)
	AuthTokenValid(ctx context.Context, token string) (bool, error)
}

// LockingStorage is the additional capability the object-store backend
// exposes (spec §4.1): a best-effort distributed read/write lease plus the
// admin-seed write path (spec §6).
type LockingStorage interface {
	Storage

	AdminTestLock(ctx context.Context, eventID int64, token string, ttl time.Duration, mode lock.Mode, force bool) (acquired bool, isFirst bool, err error)
	AdminTestUnlock(ctx context.Context, eventID int64, token string) (wasLastHolder bool, err error)
	AdminTestUnlockAll(ctx context.Context) error

	SeedEvent(ctx context.Context, seed EventSeed) error
}

// EventSeed is the normalized shape admin seed ingestion (spec §6) writes
// into the KV backend's per-event document family in one call.
type EventSeed struct {
	EventID       int64
	Event         event.Event
	Assignments   []assignment.Assignment
	PlayerFactors []assignment.PlayerFactorEntry
	RawUpstream   json.RawMessage
	AuthTokens    []string
	LastRefresh   *refresh.Record
}
