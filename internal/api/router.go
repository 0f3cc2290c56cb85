package api

import (
	"net/http"
	"route-display-service/internal/api/handlers"
	"time"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// routeTimeout caps provider time per route request; zero disables the cap.
func NewRouter(store *handlers.SessionStore, routeTimeout time.Duration, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()

	sessions := &handlers.SessionHandler{Store: store, Log: log, RouteTimeout: routeTimeout}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("/sessions", sessions.Create)
	mux.HandleFunc("/sessions/{id}", sessions.Session)
	mux.HandleFunc("/sessions/{id}/route", sessions.Route)
	mux.HandleFunc("/sessions/{id}/overview", sessions.Overview)
	mux.HandleFunc("/sessions/{id}/clear", sessions.Clear)
	mux.HandleFunc("/sessions/{id}/steps/{index}", sessions.Step)
	mux.HandleFunc("/sessions/{id}/markers/{which}", sessions.Marker)
	mux.HandleFunc("/sessions/{id}/info/close", sessions.CloseInfo)
	mux.HandleFunc("/sessions/{id}/totals", sessions.Totals)

	mux.HandleFunc("/format/distance", handlers.FormatDistance)
	mux.HandleFunc("/format/duration", handlers.FormatDuration)

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
