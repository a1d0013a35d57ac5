package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
)

func TestParseStatisticHappyPath(t *testing.T) {
	doc := map[string]any{
		"rounds": []any{
			map[string]any{
				"roundNumber": float64(1),
				"displayValue": "-2",
				"teeTime":      "8:10 AM",
				"holesPlayed":  float64(18),
				"linescores": []any{
					map[string]any{"hole": float64(1), "value": float64(3), "par": float64(4)},
					map[string]any{"hole": float64(2), "value": float64(2), "par": float64(3)},
				},
			},
			map[string]any{
				"roundNumber": float64(2),
				"displayValue": "E",
				"teeTime":      "9:00 AM",
				"holesPlayed":  float64(18),
			},
		},
	}

	stat := ParseStatistic(42, doc)

	require.Equal(t, int64(42), stat.EupID)
	require.Equal(t, []int{1, 2}, stat.Rounds)
	require.Equal(t, []int{-2, 0}, stat.RoundScores)
	require.Equal(t, []string{"8:10 AM", "9:00 AM"}, stat.TeeTimes)
	require.Equal(t, []int{18, 18}, stat.HolesCompletedByRound)
	require.Equal(t, -2, stat.TotalScore)
	require.Len(t, stat.LineScores, 2)
	require.Equal(t, score.Birdie, stat.LineScores[0].ScoreDisplay)
	require.Equal(t, score.Birdie, stat.LineScores[1].ScoreDisplay)
	require.True(t, stat.Validate())
}

func TestParseStatisticMissingSubFieldsCollapseToZero(t *testing.T) {
	doc := map[string]any{
		"rounds": []any{
			map[string]any{},
		},
	}

	stat := ParseStatistic(7, doc)

	require.Equal(t, []int{0}, stat.Rounds)
	require.Equal(t, []int{0}, stat.RoundScores)
	require.Equal(t, []string{""}, stat.TeeTimes)
	require.Equal(t, []int{0}, stat.HolesCompletedByRound)
	require.Empty(t, stat.LineScores)
	require.Equal(t, 0, stat.TotalScore)
	require.True(t, stat.Validate())
}

func TestParseStatisticNoRoundsIsEmpty(t *testing.T) {
	stat := ParseStatistic(1, map[string]any{})

	require.Empty(t, stat.Rounds)
	require.Equal(t, 0, stat.TotalScore)
	require.True(t, stat.Validate())
}
