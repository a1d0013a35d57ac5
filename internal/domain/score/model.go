// Package score holds the normalized per-golfer scoring record and the
// score-relative-to-par display category mapping (spec §3, §4.4).
package score

// Statistic is the normalized scoring record for one assignment (eup).
// Rounds, RoundScores, TeeTimes and HolesCompletedByRound are parallel
// sequences sharing index meaning.
type Statistic struct {
	EupID                 int64    `json:"eup_id"`
	Rounds                []int    `json:"rounds"`
	RoundScores           []int    `json:"round_scores"`
	TeeTimes              []string `json:"tee_times"`
	HolesCompletedByRound []int    `json:"holes_completed_by_round"`
	LineScores            []LineScore `json:"line_scores"`
	TotalScore            int      `json:"total_score"`
}

// LineScore is a single hole's score for a single golfer in a single round.
type LineScore struct {
	Round        int          `json:"round"`
	Hole         int          `json:"hole"`
	Score        int          `json:"score"`
	Par          int          `json:"par"`
	ScoreDisplay ScoreDisplay `json:"score_display"`
}

// ScoreDisplay is the closed tagged enumeration mapping a score relative to
// par onto a human-readable name. Values outside the table collapse to Par.
type ScoreDisplay string

const (
	DoubleCondor   ScoreDisplay = "DoubleCondor"
	Condor         ScoreDisplay = "Condor"
	Albatross      ScoreDisplay = "Albatross"
	Eagle          ScoreDisplay = "Eagle"
	Birdie         ScoreDisplay = "Birdie"
	Par            ScoreDisplay = "Par"
	Bogey          ScoreDisplay = "Bogey"
	DoubleBogey    ScoreDisplay = "DoubleBogey"
	TripleBogey    ScoreDisplay = "TripleBogey"
	QuadrupleBogey ScoreDisplay = "QuadrupleBogey"
	QuintupleBogey ScoreDisplay = "QuintupleBogey"
	SextupleBogey  ScoreDisplay = "SextupleBogey"
	SeptupleBogey  ScoreDisplay = "SeptupleBogey"
	OctupleBogey   ScoreDisplay = "OctupleBogey"
	NonupleBogey   ScoreDisplay = "NonupleBogey"
	DodecupleBogey ScoreDisplay = "DodecupleBogey"
)

// FromRelativeToPar is the single authoritative mapping (spec §9: other
// orderings found upstream are bugs, not variants to preserve).
func FromRelativeToPar(relativeToPar int) ScoreDisplay {
	switch relativeToPar {
	case -5:
		return DoubleCondor
	case -4:
		return Condor
	case -3:
		return Albatross
	case -2:
		return Eagle
	case -1:
		return Birdie
	case 1:
		return Bogey
	case 2:
		return DoubleBogey
	case 3:
		return TripleBogey
	case 4:
		return QuadrupleBogey
	case 5:
		return QuintupleBogey
	case 6:
		return SextupleBogey
	case 7:
		return SeptupleBogey
	case 8:
		return OctupleBogey
	case 9:
		return NonupleBogey
	case 10:
		return DodecupleBogey
	default:
		return Par
	}
}

// Validate checks the per-Statistic invariants from spec §3/§8: parallel
// sequences of equal length, and total_score consistent with round_scores.
func (s Statistic) Validate() bool {
	n := len(s.Rounds)
	if len(s.RoundScores) != n || len(s.TeeTimes) != n || len(s.HolesCompletedByRound) != n {
		return false
	}
	sum := 0
	for _, v := range s.RoundScores {
		sum += v
	}
	if len(s.RoundScores) == 0 {
		return s.TotalScore == 0
	}
	return s.TotalScore == sum
}
