// Package kvobject is the KvObject storage.LockingStorage backend (spec
// §4.1, §6): small records in Redis, large blobs in an S3-compatible
// object store, SigV4-signed by the AWS SDK's built-in signer.
package kvobject

import "fmt"

func detailsKey(eventID int64) string       { return fmt.Sprintf("event:%d:details", eventID) }
func golfersKey(eventID int64) string       { return fmt.Sprintf("event:%d:golfers", eventID) }
func playerFactorsKey(eventID int64) string { return fmt.Sprintf("event:%d:player_factors", eventID) }
func authTokensKey(eventID int64) string    { return fmt.Sprintf("event:%d:auth_tokens", eventID) }
func lastRefreshKey(eventID int64) string   { return fmt.Sprintf("event:%d:last_refresh", eventID) }
func testLockKey(eventID int64) string      { return fmt.Sprintf("event:%d:test_lock", eventID) }
func scoresPointerKey(eventID int64) string { return fmt.Sprintf("event:%d:scores_pointer", eventID) }
func seededAtKey(eventID int64, kind string) string {
	return fmt.Sprintf("event:%d:%s:seeded_at", eventID, kind)
}

const lockPrefix = "event:*:test_lock"

func scoresObjectKey(eventID int64, version int64) string {
	return fmt.Sprintf("events/%d/scores-%d.json", eventID, version)
}

func golfersObjectKey(eventID int64) string { return fmt.Sprintf("events/%d/golfers.json", eventID) }
func eventObjectKey(eventID int64) string   { return fmt.Sprintf("events/%d/event.json", eventID) }
func rawUpstreamObjectKey(eventID int64) string {
	return fmt.Sprintf("events/%d/raw_upstream.json", eventID)
}
