// Package mvu is the score handler's model-view-update loop (spec §4.7): a
// pure update function plus a small effect executor that runs the loop's
// single suspension point (run_effect) one effect at a time.
package mvu

import "github.com/derekfrye/rusty-golf-sub001/internal/pipeline"

// Model accumulates the request parameters and the loop's progress.
// Context, Rendered and Err are nil/zero until the corresponding message
// arrives.
type Model struct {
	EventID     int64
	Year        int
	UseCache    bool
	Expanded    bool
	WantJSON    bool
	CacheMaxAge int64

	Context  *pipeline.ScoreContext
	Rendered string
	Err      error
}

// NewModel seeds a Model from a decoded request (spec §4.9's ScoreRequest
// plus the attached cache_max_age).
func NewModel(eventID int64, year int, useCache, expanded, wantJSON bool, cacheMaxAge int64) Model {
	return Model{
		EventID:     eventID,
		Year:        year,
		UseCache:    useCache,
		Expanded:    expanded,
		WantJSON:    wantJSON,
		CacheMaxAge: cacheMaxAge,
	}
}

func (m Model) viewKind() string {
	if m.WantJSON {
		return "json"
	}
	return "html"
}
