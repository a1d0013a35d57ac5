package score_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
)

func TestFromRelativeToPar(t *testing.T) {
	cases := []struct {
		relative int
		want     score.ScoreDisplay
	}{
		{-5, score.DoubleCondor},
		{-4, score.Condor},
		{-3, score.Albatross},
		{-2, score.Eagle},
		{-1, score.Birdie},
		{0, score.Par},
		{1, score.Bogey},
		{2, score.DoubleBogey},
		{3, score.TripleBogey},
		{4, score.QuadrupleBogey},
		{5, score.QuintupleBogey},
		{6, score.SextupleBogey},
		{7, score.SeptupleBogey},
		{8, score.OctupleBogey},
		{9, score.NonupleBogey},
		{10, score.DodecupleBogey},
		{11, score.Par},
		{-6, score.Par},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, score.FromRelativeToPar(tc.relative))
	}
}

func TestStatisticValidate(t *testing.T) {
	t.Run("parallel sequences must match length", func(t *testing.T) {
		s := score.Statistic{
			Rounds:                []int{1, 2},
			RoundScores:           []int{-1, 2},
			TeeTimes:              []string{"8:00"},
			HolesCompletedByRound: []int{18, 18},
			TotalScore:            1,
		}
		require.False(t, s.Validate())
	})

	t.Run("total score must equal sum of round scores", func(t *testing.T) {
		s := score.Statistic{
			Rounds:                []int{1, 2},
			RoundScores:           []int{-1, 2},
			TeeTimes:              []string{"8:00", "8:10"},
			HolesCompletedByRound: []int{18, 18},
			TotalScore:            1,
		}
		require.True(t, s.Validate())
	})

	t.Run("empty round scores force a zero total", func(t *testing.T) {
		s := score.Statistic{TotalScore: 0}
		require.True(t, s.Validate())

		s.TotalScore = 4
		require.False(t, s.Validate())
	})
}
