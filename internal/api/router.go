package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/numduel/numduel/internal/api/handler"
	"github.com/numduel/numduel/internal/coordinator"
	"github.com/numduel/numduel/internal/middleware"
	"github.com/numduel/numduel/internal/services/session"
	"github.com/numduel/numduel/internal/services/solo"
	"github.com/numduel/numduel/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	SoloService       *solo.Service
	WSManager         *ws.Manager
	Coordinator       *coordinator.Coordinator
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	soloHandler := handler.NewSoloHandler(cfg.SoloService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes: creation and the open-session lobby. Play happens
	// over the websocket endpoint below.
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)

	// Solo routes
	api.HandleFunc("/solo", soloHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/solo/{gameId}", soloHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/solo/{gameId}/guess", soloHandler.Guess).Methods(http.MethodPost)
	api.HandleFunc("/solo/{gameId}/forfeit", soloHandler.Forfeit).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Websocket endpoint sits outside the API subrouter: the upgrade
	// hijacks the connection, which the logging middleware cannot wrap.
	r.HandleFunc("/ws", ws.Handler(cfg.WSManager, cfg.Coordinator, cfg.Logger))

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
