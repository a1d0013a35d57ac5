package pipeline

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/assignment"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/event"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/refresh"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
)

// AdminSeedRequest is the JSON body of the admin seed endpoint (spec §6).
type AdminSeedRequest struct {
	EventID         int64              `json:"event_id" validate:"required"`
	RefreshFromESPN int                `json:"refresh_from_espn"`
	Event           AdminSeedEvent     `json:"event" validate:"required"`
	ScoreStruct     json.RawMessage    `json:"score_struct"`
	EspnCache       json.RawMessage    `json:"espn_cache"`
	AuthTokens      []string           `json:"auth_tokens,omitempty"`
	LastRefresh     *time.Time         `json:"last_refresh,omitempty"`
}

// AdminSeedEvent is the nested event block of an AdminSeedRequest.
type AdminSeedEvent struct {
	EventID                        int64               `json:"event" validate:"required"`
	Name                            string              `json:"name" validate:"required"`
	ScoreViewStepFactor             float64             `json:"score_view_step_factor"`
	EndDate                          *time.Time          `json:"end_date,omitempty"`
	DataToFillIfEventAndYearMissing []AdminSeedDataFill `json:"data_to_fill_if_event_and_year_missing" validate:"required,min=1,dive"`
}

// AdminSeedDataFill is one entry of data_to_fill_if_event_and_year_missing;
// only the first is consumed (spec §6 step 2).
type AdminSeedDataFill struct {
	Golfers         []AdminSeedGolfer     `json:"golfers"`
	EventUserPlayer []AdminSeedAssignment `json:"event_user_player"`
}

// AdminSeedGolfer is one entry of the golfers map, keyed by EspnID.
type AdminSeedGolfer struct {
	EspnID int64  `json:"espn_id"`
	Name   string `json:"name"`
}

// AdminSeedAssignment is one event_user_player entry: a bettor's claim on
// a golfer, identified by the golfer's espn_id.
type AdminSeedAssignment struct {
	Bettor              string   `json:"bettor"`
	GolferEspnID        int64    `json:"golfer_espn_id"`
	ScoreViewStepFactor *float64 `json:"score_view_step_factor,omitempty"`
}

// IngestAdminSeed implements spec §6's ingestion algorithm: validate,
// expand the first data-fill entry into assignments with sequential
// eup_id and per-bettor running group counts, extract player factors, and
// build the EventSeed the KvObject backend writes in one call.
func IngestAdminSeed(req AdminSeedRequest, now func() time.Time) (storage.EventSeed, error) {
	if req.EventID != req.Event.EventID {
		return storage.EventSeed{}, errors.New("admin seed: event_id must match event.event")
	}
	if len(req.Event.DataToFillIfEventAndYearMissing) == 0 {
		return storage.EventSeed{}, errors.New("admin seed: data_to_fill_if_event_and_year_missing must have at least one entry")
	}
	fill := req.Event.DataToFillIfEventAndYearMissing[0]

	golfersByEspnID := make(map[int64]AdminSeedGolfer, len(fill.Golfers))
	for _, g := range fill.Golfers {
		golfersByEspnID[g.EspnID] = g
	}

	bettorIDs := make(map[string]int64)
	groupCounts := make(map[string]int)
	var nextBettorID int64
	var nextEupID int64

	assignments := make([]assignment.Assignment, 0, len(fill.EventUserPlayer))
	playerFactors := make([]assignment.PlayerFactorEntry, 0)

	for _, eup := range fill.EventUserPlayer {
		golfer, ok := golfersByEspnID[eup.GolferEspnID]
		if !ok {
			return storage.EventSeed{}, errors.Newf("admin seed: unknown golfer_espn_id %d", eup.GolferEspnID)
		}

		bettorID, ok := bettorIDs[eup.Bettor]
		if !ok {
			nextBettorID++
			bettorID = nextBettorID
			bettorIDs[eup.Bettor] = bettorID
		}
		groupCounts[eup.Bettor]++
		nextEupID++

		a := assignment.Assignment{
			EupID:        nextEupID,
			EventID:      req.EventID,
			BettorID:     bettorID,
			BettorName:   eup.Bettor,
			GolferID:     golfer.EspnID,
			GolferEspnID: golfer.EspnID,
			GolferName:   golfer.Name,
			Group:        groupCounts[eup.Bettor],
		}
		if eup.ScoreViewStepFactor != nil {
			a.ScoreViewStepFactor = eup.ScoreViewStepFactor
			playerFactors = append(playerFactors, assignment.PlayerFactorEntry{
				GolferEspnID:        golfer.EspnID,
				ScoreViewStepFactor: *eup.ScoreViewStepFactor,
			})
		}
		assignments = append(assignments, a)
	}

	lastRefresh := &refresh.Record{Timestamp: now(), Source: refresh.SourceUpstream}
	if req.LastRefresh != nil {
		lastRefresh = &refresh.Record{Timestamp: *req.LastRefresh, Source: refresh.SourceUpstream}
	}

	return storage.EventSeed{
		EventID: req.EventID,
		Event: event.Event{
			ID:                  req.Event.EventID,
			Name:                req.Event.Name,
			ScoreViewStepFactor: req.Event.ScoreViewStepFactor,
			RefreshFromESPN:     req.RefreshFromESPN,
			EndDate:             req.Event.EndDate,
		},
		Assignments:   assignment.ByGroupThenEupID(assignments),
		PlayerFactors: playerFactors,
		RawUpstream:   req.EspnCache,
		AuthTokens:    req.AuthTokens,
		LastRefresh:   lastRefresh,
	}, nil
}
