package kvobject

import "time"

// EventDetailsDoc is the event:{id}:details KV document.
type EventDetailsDoc struct {
	Name                string     `json:"name"`
	ScoreViewStepFactor float64    `json:"score_view_step_factor"`
	RefreshFromESPN     int        `json:"refresh_from_espn"`
	EndDate             *time.Time `json:"end_date,omitempty"`
}

// GolferAssignmentDoc is one entry of the event:{id}:golfers sequence.
type GolferAssignmentDoc struct {
	EupID               int64    `json:"eup_id"`
	BettorID            int64    `json:"bettor_id"`
	BettorName          string   `json:"bettor_name"`
	GolferID            int64    `json:"golfer_id"`
	GolferEspnID        int64    `json:"golfer_espn_id"`
	GolferName          string   `json:"golfer_name"`
	Group               int      `json:"group"`
	ScoreViewStepFactor *float64 `json:"score_view_step_factor,omitempty"`
}

// PlayerFactorDoc is one entry of the event:{id}:player_factors sequence.
type PlayerFactorDoc struct {
	GolferEspnID        int64   `json:"golfer_espn_id"`
	ScoreViewStepFactor float64 `json:"score_view_step_factor"`
}

// AuthTokensDoc is the event:{id}:auth_tokens KV document.
type AuthTokensDoc struct {
	Tokens []string `json:"tokens"`
}

// LastRefreshDoc is the event:{id}:last_refresh KV document.
type LastRefreshDoc struct {
	Timestamp time.Time `json:"ts"`
	Source    string    `json:"source"`
}

// SeededAtDoc is the event:{id}:<kind>:seeded_at marker (spec §9: bumped
// whenever admin seed ingestion (re)writes that kind's document).
type SeededAtDoc struct {
	SeededAt time.Time `json:"seeded_at"`
}
