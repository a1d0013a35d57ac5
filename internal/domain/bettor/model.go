// Package bettor holds the pool participant record (spec §3).
package bettor

// Bettor is a participant in the pool who owns golfers. Unique by Name
// within an event.
type Bettor struct {
	BettorID int64
	Name     string
}
