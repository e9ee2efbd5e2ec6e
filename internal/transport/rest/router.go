// Package rest
package rest

import (
	"net/http"

	"pulsedeck/internal/config"
	"pulsedeck/internal/transport/rest/middleware"
	"pulsedeck/internal/transport/websocket"
)

type RouterDeps struct {
	WS      *websocket.Handler
	Metrics *MetricsHandler
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	// WEBSOCKET
	mux.HandleFunc("GET /ws", deps.WS.Serve)

	// API
	mux.HandleFunc("GET /api/health", deps.Metrics.Health)
	mux.HandleFunc("GET /api/metrics", deps.Metrics.Latest)
	mux.HandleFunc("GET /api/sensors", deps.Metrics.Sensors)
	mux.HandleFunc("GET /api/cpu-temp-debug", deps.Metrics.CPUTempDebug)
	mux.HandleFunc("GET /api/stats", deps.Metrics.Stats)

	return globalMw.Apply(mux)
}
