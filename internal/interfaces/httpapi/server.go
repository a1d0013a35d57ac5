package httpapi

import (
	"net/http"

	"github.com/derekfrye/rusty-golf-sub001/internal/platform/logging"
)

// RouterConfig carries everything NewRouter needs beyond the Handler
// itself: the CORS allow-list and the logger (nil means logging.Default()).
// The admin token set lives on the Handler.
type RouterConfig struct {
	CORSAllowedOrigins []string
	Logger             *logging.Logger
}

// NewRouter registers the golf-scoreboard routes (spec §6) and wraps them
// in the ambient middleware stack: request logging, CORS, panic recovery,
// and an admin-token gate on the listing/seed/lock surface.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux)
	registerScoreRoutes(mux, handler)
	registerAdminRoutes(mux, handler)

	stack := RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))
	return stack
}
