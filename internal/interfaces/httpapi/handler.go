package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/derekfrye/rusty-golf-sub001/internal/domain/lock"
	"github.com/derekfrye/rusty-golf-sub001/internal/domain/storage"
	"github.com/derekfrye/rusty-golf-sub001/internal/mvu"
	"github.com/derekfrye/rusty-golf-sub001/internal/pipeline"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/cache"
	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"

	"github.com/derekfrye/rusty-golf-sub001/external/upstream"
)

const eventListingsCacheKey = "event_listings"

// Handler wires the pure pipeline and storage/upstream ports into HTTP
// request/response plumbing (spec §1 Non-goals carve this layer out as
// thin: it only ever invokes the core through the §6 contracts).
type Handler struct {
	Store           storage.Storage
	Client          upstream.Client
	Logger          *logging.Logger
	AdminAuthTokens []string
	Now             func() time.Time

	// eventListingsCache memoizes ListEventListings for a short TTL so
	// repeated admin-dashboard polling doesn't hit the storage backend on
	// every request.
	eventListingsCache *cache.Store
}

// NewHandler constructs a Handler. now defaults to time.Now when nil so
// production callers don't have to thread a clock through.
func NewHandler(store storage.Storage, client upstream.Client, logger *logging.Logger, adminAuthTokens []string, now func() time.Time, eventListingsCacheTTL time.Duration) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Handler{
		Store:              store,
		Client:             client,
		Logger:             logger,
		AdminAuthTokens:    adminAuthTokens,
		Now:                now,
		eventListingsCache: cache.NewStore(eventListingsCacheTTL),
	}
}

// scoresQueryParams picks the subset of query params DecodeScoreRequest
// understands out of an arbitrary *http.Request.
func scoresQueryParams(r *http.Request) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, 5)
	for _, key := range []string{"event", "yr", "cache", "json", "expanded"} {
		if v := q.Get(key); v != "" {
			out[key] = v
		}
	}
	return out
}

// GetScores implements spec §6's /scores endpoint. Control flow follows
// spec §4.7's MVU loop verbatim: decode request → seed Model → run the
// effect loop (load context, then render) → write the rendered payload.
// Decode failures are spec §7's literal-message 400 case and short-circuit
// before the loop starts.
func (h *Handler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScores")
	defer span.End()

	req, err := pipeline.DecodeScoreRequest(ctx, scoresQueryParams(r), h.Store, h.Now)
	if err != nil {
		writeBadRequest(ctx, w, err)
		return
	}

	model := mvu.NewModel(req.EventID, req.Year, req.UseCache, req.Expanded, true, req.CacheMaxAge)
	final, err := mvu.Run(ctx, model, mvu.Deps{
		LoadContext: func(ctx context.Context, m mvu.Model) (pipeline.ScoreContext, error) {
			return pipeline.LoadScoresData(ctx, h.Store, h.Client, m.EventID, m.Year, m.UseCache, m.CacheMaxAge, h.Now)
		},
		Render: func(_ context.Context, m mvu.Model, viewKind string) (string, error) {
			return h.renderScoreView(m, viewKind)
		},
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(final.Rendered))
}

// renderScoreView is the MVU loop's sole Render suspension point for this
// handler. HTML templating is out of scope here (spec §1 Non-goals: "HTML
// rendering templates" is an external collaborator's concern) so only the
// "json" view kind is produced; an out-of-process HTML renderer would plug
// into the same Deps.Render hook with its own viewKind case.
func (h *Handler) renderScoreView(m mvu.Model, viewKind string) (string, error) {
	if viewKind != "json" {
		return "", fmt.Errorf("render view kind %q: %w", viewKind, errHTMLRenderingOutOfScope)
	}
	scoreCtx := *m.Context
	payload := googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data: scoresResponse{
			EventID:     scoreCtx.EventID,
			Year:        scoreCtx.Year,
			Ranked:      scoreCtx.Ranked,
			LastRefresh: scoreCtx.LastRefresh.Timestamp,
			Expanded:    expandedScoresOrNil(m.Expanded, scoreCtx),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// errHTMLRenderingOutOfScope marks the one viewKind this handler
// deliberately does not implement.
var errHTMLRenderingOutOfScope = errors.New("html rendering is served by a separate template layer")

type scoresResponse struct {
	EventID     int64                   `json:"event_id"`
	Year        int                     `json:"year"`
	Ranked      []pipeline.RankedBettor `json:"scoreboard"`
	LastRefresh time.Time               `json:"last_refresh"`
	Expanded    *expandedScores         `json:"expanded,omitempty"`
}

type expandedScores struct {
	ByBettorRound       []pipeline.BettorRoundGroup  `json:"by_bettor_round"`
	ByBettorGolferRound []pipeline.BettorGolferGroup `json:"by_bettor_golfer_round"`
}

// expandedScoresOrNil attaches the drilldown groupings only when the
// caller asked for expanded=1 (spec §6 query surface); the default
// response stays the flat scoreboard.
func expandedScoresOrNil(expanded bool, scoreCtx pipeline.ScoreContext) *expandedScores {
	if !expanded {
		return nil
	}
	return &expandedScores{
		ByBettorRound:       pipeline.GroupByBettorNameAndRound(scoreCtx.Scored),
		ByBettorGolferRound: pipeline.GroupByBettorGolferRound(scoreCtx.Scored),
	}
}

// ListEventListings implements the admin listing surface behind
// RequireAdminToken, caching the backend read for eventListingsCache's TTL.
func (h *Handler) ListEventListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventListings")
	defer span.End()

	cached, err := h.eventListingsCache.GetOrLoad(ctx, eventListingsCacheKey, func(ctx context.Context) (any, error) {
		return h.Store.ListEventListings(ctx)
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, cached)
}

// VerifyAdminToken satisfies the verify func RequireAdminToken expects: the
// static config allow-list first, then the backend's own AuthTokenValid
// (spec §4.1), so a KV-seeded token works without a redeploy.
func (h *Handler) VerifyAdminToken(r *http.Request, token string) (bool, error) {
	for _, t := range h.AdminAuthTokens {
		if t == token {
			return true, nil
		}
	}
	return h.Store.AuthTokenValid(r.Context(), token)
}

// lockingStore type-asserts Store to storage.LockingStorage, reporting
// ok=false when the configured backend (e.g. SQL) doesn't carry the admin
// lock / seed surface (spec §4.1: "the additional capability the
// object-store backend exposes"); callers then answer with
// errLockingUnsupported.
func (h *Handler) lockingStore() (storage.LockingStorage, bool) {
	ls, ok := h.Store.(storage.LockingStorage)
	return ls, ok
}

var errLockingUnsupported = httpError("admin seed/lock endpoints require the kvobject storage backend")

type httpError string

func (e httpError) Error() string { return string(e) }

// AdminSeed implements spec §6's admin seed endpoint: decode the request
// body, ingest it into an EventSeed, and hand it to the backend's
// SeedEvent in one call.
func (h *Handler) AdminSeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminSeed")
	defer span.End()

	ls, ok := h.lockingStore()
	if !ok {
		writeError(ctx, w, errLockingUnsupported)
		return
	}

	var req pipeline.AdminSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, err)
		return
	}

	seed, err := pipeline.IngestAdminSeed(req, h.Now)
	if err != nil {
		writeBadRequest(ctx, w, err)
		return
	}

	if err := ls.SeedEvent(ctx, seed); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.eventListingsCache.Delete(ctx, eventListingsCacheKey)

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"event_id": seed.EventID, "seeded": true})
}

type adminLockRequest struct {
	Token string        `json:"token"`
	TTL   time.Duration `json:"ttl_seconds"`
	Mode  lock.Mode     `json:"mode"`
	Force bool          `json:"force"`
}

// AdminTestLock implements the admin_test_lock surface (spec §4.8).
func (h *Handler) AdminTestLock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminTestLock")
	defer span.End()

	ls, ok := h.lockingStore()
	if !ok {
		writeError(ctx, w, errLockingUnsupported)
		return
	}

	eventID, ok := parseEventIDParam(r)
	if !ok {
		writeBadRequest(ctx, w, errors.New("espn event parameter is required"))
		return
	}

	var req adminLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, err)
		return
	}
	if req.Mode == "" {
		req.Mode = lock.Shared
	}

	acquired, isFirst, err := ls.AdminTestLock(ctx, eventID, req.Token, req.TTL*time.Second, req.Mode, req.Force)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"acquired": acquired, "is_first": isFirst})
}

// AdminTestUnlock implements the admin_test_unlock surface (spec §4.8).
func (h *Handler) AdminTestUnlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminTestUnlock")
	defer span.End()

	ls, ok := h.lockingStore()
	if !ok {
		writeError(ctx, w, errLockingUnsupported)
		return
	}

	eventID, ok := parseEventIDParam(r)
	if !ok {
		writeBadRequest(ctx, w, errors.New("espn event parameter is required"))
		return
	}
	token := r.URL.Query().Get("token")

	wasLastHolder, err := ls.AdminTestUnlock(ctx, eventID, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"was_last_holder": wasLastHolder})
}

// AdminTestUnlockAll implements the admin_test_unlock_all surface (spec
// §4.8), used by integration-test suites to reset lock state between runs.
func (h *Handler) AdminTestUnlockAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminTestUnlockAll")
	defer span.End()

	ls, ok := h.lockingStore()
	if !ok {
		writeError(ctx, w, errLockingUnsupported)
		return
	}

	if err := ls.AdminTestUnlockAll(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"unlocked": true})
}

func parseEventIDParam(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("event")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
