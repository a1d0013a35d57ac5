package pipeline

import (
	"strconv"
	"strings"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/score"
)

// ParseStatistic implements spec §4.4: walk the per-golfer upstream JSON map
// into a normalized Statistic. It never fails; any sub-field that is
// missing or of the wrong shape collapses to its zero value rather than
// aborting the walk (the caller already guaranteed the "rounds" key is
// present before handing the document here).
func ParseStatistic(eupID int64, doc map[string]any) score.Statistic {
	stat := score.Statistic{EupID: eupID}

	roundsRaw, _ := doc["rounds"].([]any)
	for _, r := range roundsRaw {
		round, ok := r.(map[string]any)
		if !ok {
			continue
		}

		roundNumber := getInt(round, "roundNumber")
		stat.Rounds = append(stat.Rounds, roundNumber)
		stat.RoundScores = append(stat.RoundScores, parseRelativeToPar(getString(round, "displayValue")))
		stat.TeeTimes = append(stat.TeeTimes, getString(round, "teeTime"))
		stat.HolesCompletedByRound = append(stat.HolesCompletedByRound, getInt(round, "holesPlayed"))

		for _, ls := range getSlice(round, "linescores") {
			hole, ok := ls.(map[string]any)
			if !ok {
				continue
			}
			holeScore := getInt(hole, "value")
			par := getInt(hole, "par")
			stat.LineScores = append(stat.LineScores, score.LineScore{
				Round:        roundNumber,
				Hole:         getInt(hole, "hole"),
				Score:        holeScore,
				Par:          par,
				ScoreDisplay: score.FromRelativeToPar(holeScore - par),
			})
		}
	}

	for _, v := range stat.RoundScores {
		stat.TotalScore += v
	}
	return stat
}

// parseRelativeToPar reads an ESPN-style "displayValue" like "E", "-2", or
// "+3" and returns the signed integer relative-to-par value. Unparseable
// input collapses to 0 (spec §4.4: "missing sub-fields collapse to zero").
func parseRelativeToPar(displayValue string) int {
	v := strings.TrimSpace(displayValue)
	if v == "" || v == "E" {
		return 0
	}
	v = strings.TrimPrefix(v, "+")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func getInt(src map[string]any, key string) int {
	return int(getInt64(src, key))
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return 0
	}
	switch typed := raw.(type) {
	case float64:
		return int64(typed)
	case float32:
		return int64(typed)
	case int:
		return int64(typed)
	case int64:
		return typed
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func getSlice(src map[string]any, key string) []any {
	if src == nil {
		return nil
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.([]any)
	if !ok {
		return nil
	}
	return s
}
