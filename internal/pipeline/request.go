package pipeline

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
)

// ScoreRequest is the decoded /scores query (spec §4.9).
type ScoreRequest struct {
	EventID     int64
	Year        int
	UseCache    bool
	WantJSON    bool
	Expanded    bool
	CacheMaxAge int64
}

// DecodeScoreRequest implements spec §4.9: decode the query-param map into
// a ScoreRequest, then attach cache_max_age via CacheMaxAgeForEvent. The
// two required-parameter error messages are part of the observable
// contract (spec §7: "Request decoding errors return HTTP 400 with the
// literal message").
func DecodeScoreRequest(ctx context.Context, params map[string]string, store storage.Storage, now func() time.Time) (ScoreRequest, error) {
	eventID, ok := parseInt64(params["event"])
	if !ok {
		return ScoreRequest{}, errors.New("espn event parameter is required")
	}

	year, ok := parseInt(params["yr"])
	if !ok {
		return ScoreRequest{}, errors.New("yr (year) parameter is required")
	}

	req := ScoreRequest{
		EventID:  eventID,
		Year:     year,
		UseCache: params["cache"] != "0",
		WantJSON: parseBoolPermissive(params["json"]),
		Expanded: parseBoolPermissive(params["expanded"]),
	}

	req.CacheMaxAge = CacheMaxAgeForEvent(ctx, store, eventID, now)
	return req, nil
}

func parseInt64(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(raw string) (int, bool) {
	v, ok := parseInt64(raw)
	return int(v), ok
}

// parseBoolPermissive defaults to false; "1" is true, and any other string
// parseable by strconv.ParseBool takes that value (spec §4.9: "parsed
// permissively as booleans").
func parseBoolPermissive(raw string) bool {
	if raw == "" {
		return false
	}
	if raw == "1" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
