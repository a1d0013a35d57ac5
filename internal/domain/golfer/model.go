// Package golfer holds the player record (spec §3).
package golfer

// Golfer is a tournament player. EspnID is the upstream identifier and is
// globally unique.
type Golfer struct {
	GolferID int64
	EspnID   int64
	Name     string
}
