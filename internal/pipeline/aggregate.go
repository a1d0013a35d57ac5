package pipeline

import (
	"sort"
	"strconv"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
)

// ScoredAssignment pairs one assignment with its parsed Statistic (spec
// §4.5 works over this joined shape, not over either alone).
type ScoredAssignment struct {
	Assignment assignment.Assignment
	Statistic  score.Statistic
}

// RoundTotal is one (round, summed round score) pair.
type RoundTotal struct {
	Round int
	Total int
}

// BettorRoundGroup is one bettor's round-by-round totals, rounds ascending.
type BettorRoundGroup struct {
	BettorName string
	Rounds     []RoundTotal
}

// GolferRoundGroup is one golfer's round-by-round totals within a bettor.
type GolferRoundGroup struct {
	GolferName string
	Rounds     []RoundTotal
}

// BettorGolferGroup is one bettor's per-golfer drilldown (spec §4.5).
type BettorGolferGroup struct {
	BettorName string
	Golfers    []GolferRoundGroup
}

// BettorTotal is the input to ScoreboardRanking: one bettor's total score
// summed across all their assignments.
type BettorTotal struct {
	BettorName string
	TotalScore int
}

// RankedBettor is one row of the scoreboard, positioned per spec §4.5.
type RankedBettor struct {
	BettorName             string
	TotalScore             int
	ScoreboardPosition     int
	ScoreboardPositionName string
}

// GroupByBettorNameAndRound implements spec §4.5's
// group_by_bettor_name_and_round: per bettor, the sum of round_scores
// across that bettor's assignments, for each round, rounds ascending.
// Bettors are returned in first-seen order.
func GroupByBettorNameAndRound(scores []ScoredAssignment) []BettorRoundGroup {
	order := make([]string, 0)
	totals := make(map[string]map[int]int)

	for _, s := range scores {
		name := s.Assignment.BettorName
		if _, ok := totals[name]; !ok {
			totals[name] = make(map[int]int)
			order = append(order, name)
		}
		for i, round := range s.Statistic.Rounds {
			totals[name][round] += s.Statistic.RoundScores[i]
		}
	}

	groups := make([]BettorRoundGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, BettorRoundGroup{BettorName: name, Rounds: sortedRoundTotals(totals[name])})
	}
	return groups
}

// GroupByBettorGolferRound implements spec §4.5's
// group_by_bettor_golfer_round, for per-golfer drilldown views. Bettors and
// golfers within a bettor are returned in first-seen order.
func GroupByBettorGolferRound(scores []ScoredAssignment) []BettorGolferGroup {
	bettorOrder := make([]string, 0)
	golferOrderByBettor := make(map[string][]string)
	totals := make(map[string]map[string]map[int]int)

	for _, s := range scores {
		bettor := s.Assignment.BettorName
		golfer := s.Assignment.GolferName
		if _, ok := totals[bettor]; !ok {
			totals[bettor] = make(map[string]map[int]int)
			bettorOrder = append(bettorOrder, bettor)
		}
		if _, ok := totals[bettor][golfer]; !ok {
			totals[bettor][golfer] = make(map[int]int)
			golferOrderByBettor[bettor] = append(golferOrderByBettor[bettor], golfer)
		}
		for i, round := range s.Statistic.Rounds {
			totals[bettor][golfer][round] += s.Statistic.RoundScores[i]
		}
	}

	groups := make([]BettorGolferGroup, 0, len(bettorOrder))
	for _, bettor := range bettorOrder {
		golfers := make([]GolferRoundGroup, 0, len(golferOrderByBettor[bettor]))
		for _, golfer := range golferOrderByBettor[bettor] {
			golfers = append(golfers, GolferRoundGroup{
				GolferName: golfer,
				Rounds:     sortedRoundTotals(totals[bettor][golfer]),
			})
		}
		groups = append(groups, BettorGolferGroup{BettorName: bettor, Golfers: golfers})
	}
	return groups
}

func sortedRoundTotals(byRound map[int]int) []RoundTotal {
	rounds := make([]int, 0, len(byRound))
	for r := range byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)

	out := make([]RoundTotal, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, RoundTotal{Round: r, Total: byRound[r]})
	}
	return out
}

// ScoreboardRanking implements spec §4.5's scoreboard_ranking: sort by
// total_score ascending (lower is better), ties broken by bettor_name
// ascending; scoreboard_position is a dense rank shared by ties;
// scoreboard_position_name is the ordinal string, prefixed "T-" on ties.
func ScoreboardRanking(bettors []BettorTotal) []RankedBettor {
	sorted := make([]BettorTotal, len(bettors))
	copy(sorted, bettors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore < sorted[j].TotalScore
		}
		return sorted[i].BettorName < sorted[j].BettorName
	})

	ranked := make([]RankedBettor, len(sorted))
	position := 0
	for i, b := range sorted {
		if i == 0 || sorted[i].TotalScore != sorted[i-1].TotalScore {
			position++
		}
		ranked[i] = RankedBettor{
			BettorName:         b.BettorName,
			TotalScore:         b.TotalScore,
			ScoreboardPosition: position,
		}
	}

	tiedCount := make(map[int]int)
	for _, r := range ranked {
		tiedCount[r.ScoreboardPosition]++
	}
	for i := range ranked {
		name := ordinal(ranked[i].ScoreboardPosition)
		if tiedCount[ranked[i].ScoreboardPosition] > 1 {
			name = "T-" + name
		}
		ranked[i].ScoreboardPositionName = name
	}
	return ranked
}

func ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return strconv.Itoa(n) + "th"
	}
	switch n % 10 {
	case 1:
		return strconv.Itoa(n) + "st"
	case 2:
		return strconv.Itoa(n) + "nd"
	case 3:
		return strconv.Itoa(n) + "rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}
