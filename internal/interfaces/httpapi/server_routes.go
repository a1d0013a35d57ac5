package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// registerScoreRoutes wires spec §6's public query surface:
// /scores?event=E&yr=Y&cache=0|1&json=0|1&expanded=0|1.
func registerScoreRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /scores", handler.GetScores)
}

// registerAdminRoutes wires the admin listing, seed-ingestion, and
// distributed-lock surfaces behind RequireAdminToken (spec §6, §4.8).
func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /admin/events", RequireAdminToken(handler.VerifyAdminToken, http.HandlerFunc(handler.ListEventListings)))
	mux.Handle("POST /admin/seed", RequireAdminToken(handler.VerifyAdminToken, http.HandlerFunc(handler.AdminSeed)))
	mux.Handle("POST /admin/lock", RequireAdminToken(handler.VerifyAdminToken, http.HandlerFunc(handler.AdminTestLock)))
	mux.Handle("POST /admin/unlock", RequireAdminToken(handler.VerifyAdminToken, http.HandlerFunc(handler.AdminTestUnlock)))
	mux.Handle("POST /admin/unlock-all", RequireAdminToken(handler.VerifyAdminToken, http.HandlerFunc(handler.AdminTestUnlockAll)))
}
