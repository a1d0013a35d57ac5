// Package assignment holds the event_user_player ("eup") record: a
// bettor's claim on one golfer within one event (spec §3).
package assignment

import "sort"

// Assignment ties a bettor to one of their golfers for one event. EupID is
// stable and is referenced by every score row for that claim. Group is the
// 1-based ordinal of this golfer within the bettor's slate for the event.
type Assignment struct {
	EupID               int64
	EventID             int64
	BettorID            int64
	BettorName          string
	GolferID            int64
	GolferEspnID        int64
	GolferName          string
	Group               int
	ScoreViewStepFactor *float64
}

// PlayerFactorEntry is the (golfer, step factor) projection used by the
// object-store backend's `event:{id}:player_factors` document (spec §4.1,
// §6); only assignments with a numeric override populate it (spec §6 step 4
// of admin seed ingestion).
type PlayerFactorEntry struct {
	GolferEspnID        int64
	ScoreViewStepFactor float64
}

// ByGroupThenEupID orders assignments the way spec §4.1 requires
// get_assignments to return them: stable order by (group, eup_id).
func ByGroupThenEupID(items []Assignment) []Assignment {
	out := append([]Assignment(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].EupID < out[j].EupID
	})
	return out
}
