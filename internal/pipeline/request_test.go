package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeScoreRequestMissingEvent(t *testing.T) {
	store := &fakeStorage{}
	_, err := DecodeScoreRequest(context.Background(), map[string]string{"yr": "2024"}, store, time.Now)
	require.EqualError(t, err, "espn event parameter is required")
}

func TestDecodeScoreRequestMissingYear(t *testing.T) {
	store := &fakeStorage{}
	_, err := DecodeScoreRequest(context.Background(), map[string]string{"event": "401580351"}, store, time.Now)
	require.EqualError(t, err, "yr (year) parameter is required")
}

func TestDecodeScoreRequestDefaults(t *testing.T) {
	store := &fakeStorage{}
	req, err := DecodeScoreRequest(context.Background(), map[string]string{
		"event": "401580351",
		"yr":    "2024",
	}, store, time.Now)

	require.NoError(t, err)
	require.Equal(t, int64(401580351), req.EventID)
	require.Equal(t, 2024, req.Year)
	require.True(t, req.UseCache)
	require.False(t, req.WantJSON)
	require.False(t, req.Expanded)
}

func TestDecodeScoreRequestCacheOnlyZeroMeansFalse(t *testing.T) {
	store := &fakeStorage{}
	params := map[string]string{"event": "1", "yr": "2024", "cache": "false"}
	req, err := DecodeScoreRequest(context.Background(), params, store, time.Now)
	require.NoError(t, err)
	require.True(t, req.UseCache, "only the literal \"0\" should mean false")

	params["cache"] = "0"
	req, err = DecodeScoreRequest(context.Background(), params, store, time.Now)
	require.NoError(t, err)
	require.False(t, req.UseCache)
}

func TestDecodeScoreRequestJSONAndExpandedPermissive(t *testing.T) {
	store := &fakeStorage{}
	params := map[string]string{"event": "1", "yr": "2024", "json": "1", "expanded": "true"}
	req, err := DecodeScoreRequest(context.Background(), params, store, time.Now)
	require.NoError(t, err)
	require.True(t, req.WantJSON)
	require.True(t, req.Expanded)
}
