package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

// CacheMaxAgeForEvent implements spec §4.2's cache_max_age_for_event: the
// permitted age, in seconds, for cached results.
//
//   - event lookup fails           -> 0  (fail-open: always refresh)
//   - end_date present and past    -> -1 (cache never expires)
//   - refresh_from_espn == 1       -> 300 (short TTL for a live event)
//   - otherwise                    -> 0
//
// Storage errors are swallowed here and mapped to 0 (spec §7: "The TTL
// helper swallows storage errors and returns 0, fail-open to a refresh").
func CacheMaxAgeForEvent(ctx context.Context, store storage.Storage, eventID int64, now func() time.Time) int64 {
	details, err := store.GetEventDetails(ctx, eventID)
	if err != nil || !details.Found {
		if err != nil {
			logging.Default().WarnContext(ctx, "cache_max_age_for_event: event lookup failed, failing open",
				"event_id", eventID, "error", err)
		}
		return 0
	}

	ev := details.Event
	if ev.HasEnded(now()) {
		return -1
	}
	if ev.IsLive() {
		return 300
	}
	return 0
}

// IsFresh implements the freshness check from spec §4.6 step 2:
// cache_max_age == -1 is always fresh; 0 is never fresh; positive values
// compare the age of lastRefresh against cacheMaxAge seconds.
func IsFresh(useCache bool, lastRefreshExists bool, lastRefreshTS time.Time, cacheMaxAge int64, now time.Time) bool {
	if !useCache || !lastRefreshExists {
		return false
	}
	switch {
	case cacheMaxAge < 0:
		return true
	case cacheMaxAge == 0:
		return false
	default:
		return now.Sub(lastRefreshTS) <= time.Duration(cacheMaxAge)*time.Second
	}
}

// FormatAge buckets a duration into the legacy human-readable age string
// (spec §8 scenario 2, §9: "the age-formatter buckets >=7 days to weeks").
// Non-normative UI helper, kept for parity with the original behavior.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d / time.Minute)
		return pluralize(mins, "minute")
	case d < 24*time.Hour:
		hours := int(d / time.Hour)
		return pluralize(hours, "hour")
	case d < 7*24*time.Hour:
		days := int(d / (24 * time.Hour))
		return pluralize(days, "day")
	default:
		weeks := int(d / (7 * 24 * time.Hour))
		return pluralize(weeks, "week")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
