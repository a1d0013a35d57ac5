//go:build integration

package kvobject_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/event"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/lock"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/refresh"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
	"github.com/derekfrye/rusty-golf-sub001/internal/infrastructure/repository/kvobject"
)

// fakeObjectStore is an in-memory ObjectStore substitute, avoiding the need
// for a real S3-compatible bucket in tests (only Redis needs to be live).
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) PutObject(_ context.Context, key string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]byte(nil), body...)
	f.objects[key] = cp
	return nil
}

func (f *fakeObjectStore) GetObject(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[key]
	return body, ok, nil
}

func newTestRepository(t *testing.T) (*kvobject.Repository, *redis.Client) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return kvobject.NewRepository(client, newFakeObjectStore(), nil), client
}

func TestRepositoryEventDetailsRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	details, err := repo.GetEventDetails(ctx, 42)
	require.NoError(t, err)
	require.False(t, details.Found)

	require.NoError(t, repo.SeedEvent(ctx, storage.EventSeed{
		EventID: 42,
		Event: event.Event{
			Name:                "Masters",
			ScoreViewStepFactor: 0.5,
			RefreshFromESPN:     1,
		},
	}))

	details, err = repo.GetEventDetails(ctx, 42)
	require.NoError(t, err)
	require.True(t, details.Found)
	require.Equal(t, "Masters", details.Event.Name)
	require.Equal(t, 1, details.Event.RefreshFromESPN)
}

func TestRepositoryAssignmentsOrderedByGroupThenEupID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedEvent(ctx, storage.EventSeed{
		EventID: 7,
		Event:   event.Event{Name: "Open"},
		Assignments: []assignment.Assignment{
			{EupID: 3, Group: 2, BettorName: "Bea"},
			{EupID: 1, Group: 1, BettorName: "Alice"},
			{EupID: 2, Group: 1, BettorName: "Alice"},
		},
	}))

	got, err := repo.GetAssignments(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{1, 2, 3}, []int64{got[0].EupID, got[1].EupID, got[2].EupID})
}

func TestRepositoryStatisticsVersionedPointerFlip(t *testing.T) {
	repo, client := newTestRepository(t)
	ctx := context.Background()

	stats, err := repo.GetStatistics(ctx, 9)
	require.NoError(t, err)
	require.Nil(t, stats)

	first := []score.Statistic{{EupID: 1, TotalScore: 70}}
	require.NoError(t, repo.PutStatistics(ctx, 9, first))

	stats, err = repo.GetStatistics(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, first, stats)

	firstPointer, err := client.Get(ctx, "event:9:scores_pointer").Result()
	require.NoError(t, err)

	second := []score.Statistic{{EupID: 1, TotalScore: 68}}
	require.NoError(t, repo.PutStatistics(ctx, 9, second))

	stats, err = repo.GetStatistics(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, second, stats)

	secondPointer, err := client.Get(ctx, "event:9:scores_pointer").Result()
	require.NoError(t, err)
	require.NotEqual(t, firstPointer, secondPointer)
}

func TestRepositoryLastRefreshRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, found, err := repo.GetLastRefresh(ctx, 3)
	require.NoError(t, err)
	require.False(t, found)

	rec := refresh.Record{Timestamp: time.Now().UTC().Truncate(time.Second), Source: refresh.SourceUpstream}
	require.NoError(t, repo.PutLastRefresh(ctx, 3, rec))

	got, found, err := repo.GetLastRefresh(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, rec.Source, got.Source)
	require.True(t, rec.Timestamp.Equal(got.Timestamp))
}

func TestRepositoryRawUpstreamRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, found, err := repo.GetRawUpstream(ctx, 11)
	require.NoError(t, err)
	require.False(t, found)

	payload := json.RawMessage(`{"rounds":[]}`)
	require.NoError(t, repo.PutRawUpstream(ctx, 11, payload))

	got, found, err := repo.GetRawUpstream(ctx, 11)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, string(payload), string(got))
}

func TestRepositoryListEventListingsAndAuthTokenValid(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedEvent(ctx, storage.EventSeed{
		EventID:    21,
		Event:      event.Event{Name: "Ryder Cup"},
		AuthTokens: []string{"tok-abc"},
	}))

	listings, err := repo.ListEventListings(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, int64(21), listings[0].EventID)
	require.Equal(t, "Ryder Cup", listings[0].Name)

	valid, err := repo.AuthTokenValid(ctx, "tok-abc")
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = repo.AuthTokenValid(ctx, "nope")
	require.NoError(t, err)
	require.False(t, valid)
}

func TestRepositoryAdminLockSharedThenExclusiveThenUnlockAll(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	acquired, isFirst, err := repo.AdminTestLock(ctx, 5, "tokenA", time.Minute, lock.Shared, false)
	require.NoError(t, err)
	require.True(t, acquired)
	require.True(t, isFirst)

	acquired, _, err = repo.AdminTestLock(ctx, 5, "tokenB", time.Minute, lock.Exclusive, false)
	require.NoError(t, err)
	require.False(t, acquired, "exclusive must not be granted while a shared holder is live")

	acquired, _, err = repo.AdminTestLock(ctx, 5, "tokenB", time.Minute, lock.Exclusive, true)
	require.NoError(t, err)
	require.True(t, acquired, "force should clear the shared holder first")

	require.NoError(t, repo.AdminTestUnlockAll(ctx))

	acquired, isFirst, err = repo.AdminTestLock(ctx, 5, "tokenC", time.Minute, lock.Shared, false)
	require.NoError(t, err)
	require.True(t, acquired)
	require.True(t, isFirst)
}

func TestRepositorySeedEventIsIdempotent(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	seed := storage.EventSeed{
		EventID: 99,
		Event:   event.Event{Name: "Tour Championship"},
		Assignments: []assignment.Assignment{
			{EupID: 1, Group: 1, BettorName: "Cam"},
		},
	}
	require.NoError(t, repo.SeedEvent(ctx, seed))
	require.NoError(t, repo.SeedEvent(ctx, seed))

	assignments, err := repo.GetAssignments(ctx, 99)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
}
