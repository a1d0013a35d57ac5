// Package refresh holds the bookkeeping records for the last successful
// score aggregation and the most recent raw upstream payload (spec §3).
package refresh

import (
	"encoding/json"
	"time"
)

// Source says whether a result came from a stored refresh or a live pull.
type Source string

const (
	SourceDatabase Source = "Database"
	SourceUpstream Source = "Upstream"
)

// Record is written once per successful aggregation (spec §3 invariant: a
// Record exists for an event iff at least one aggregation has succeeded).
type Record struct {
	Timestamp time.Time
	Source    Source
}

// RawUpstreamCache is the opaque JSON blob of the most recent upstream
// response set for one event.
type RawUpstreamCache struct {
	EventID int64
	Payload json.RawMessage
}
