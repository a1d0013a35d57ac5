package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stepFactor(v float64) *float64 { return &v }

func TestIngestAdminSeedEventIDMismatch(t *testing.T) {
	req := AdminSeedRequest{EventID: 1, Event: AdminSeedEvent{EventID: 2}}
	_, err := IngestAdminSeed(req, time.Now)
	require.Error(t, err)
}

func TestIngestAdminSeedMissingDataFill(t *testing.T) {
	req := AdminSeedRequest{EventID: 1, Event: AdminSeedEvent{EventID: 1}}
	_, err := IngestAdminSeed(req, time.Now)
	require.Error(t, err)
}

func TestIngestAdminSeedUnknownGolfer(t *testing.T) {
	req := AdminSeedRequest{
		EventID: 1,
		Event: AdminSeedEvent{
			EventID: 1,
			DataToFillIfEventAndYearMissing: []AdminSeedDataFill{
				{EventUserPlayer: []AdminSeedAssignment{{Bettor: "Alice", GolferEspnID: 99}}},
			},
		},
	}
	_, err := IngestAdminSeed(req, time.Now)
	require.Error(t, err)
}

func TestIngestAdminSeedHappyPath(t *testing.T) {
	fixedNow := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req := AdminSeedRequest{
		EventID:         401580351,
		RefreshFromESPN: 1,
		Event: AdminSeedEvent{
			EventID: 401580351,
			Name:    "The Open",
			DataToFillIfEventAndYearMissing: []AdminSeedDataFill{
				{
					Golfers: []AdminSeedGolfer{
						{EspnID: 100, Name: "Golfer One"},
						{EspnID: 200, Name: "Golfer Two"},
					},
					EventUserPlayer: []AdminSeedAssignment{
						{Bettor: "Alice", GolferEspnID: 100},
						{Bettor: "Alice", GolferEspnID: 200, ScoreViewStepFactor: stepFactor(1.5)},
						{Bettor: "Bob", GolferEspnID: 100},
					},
				},
			},
		},
	}

	seed, err := IngestAdminSeed(req, func() time.Time { return fixedNow })

	require.NoError(t, err)
	require.Len(t, seed.Assignments, 3)
	require.Len(t, seed.PlayerFactors, 1)
	require.Equal(t, int64(200), seed.PlayerFactors[0].GolferEspnID)

	byEup := make(map[int64]int)
	for _, a := range seed.Assignments {
		byEup[a.EupID] = a.Group
	}
	require.Equal(t, 1, byEup[1])
	require.Equal(t, 2, byEup[2])
	require.Equal(t, 1, byEup[3])

	require.NotNil(t, seed.LastRefresh)
	require.Equal(t, fixedNow, seed.LastRefresh.Timestamp)
}
