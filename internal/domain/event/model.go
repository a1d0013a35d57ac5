// Package event holds the tournament configuration record (spec §3).
package event

import "time"

// Event is a tournament, identified by the upstream integer id.
type Event struct {
	ID                 int64
	Name               string
	ScoreViewStepFactor float64
	RefreshFromESPN    int
	EndDate            *time.Time
}

// Details is what get_event_details returns: the event plus whether it
// was found at all (spec §4.1).
type Details struct {
	Event Event
	Found bool
}

// Listing is the admin-only summary row (spec §4.1 list_event_listings).
type Listing struct {
	EventID int64
	Name    string
}

// IsLive reports the refresh_from_espn==1 "short TTL" policy flag (spec §4.2).
func (e Event) IsLive() bool {
	return e.RefreshFromESPN == 1
}

// HasEnded reports whether EndDate is set and in the past relative to now.
func (e Event) HasEnded(now time.Time) bool {
	return e.EndDate != nil && now.After(*e.EndDate)
}
