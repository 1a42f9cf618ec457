package http

import (
	"context"
	"net/http"
	"time"

	"farmrent-backend/internal/security"
	"farmrent-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter registers the HTTP endpoints. db may be nil for the memory store.
func NewRouter(bookingSvc service.BookingService, tm security.TokenManager, db Pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(Recover, RequestID, Metrics)

	router.HandleFunc("/healthz", healthHandler(db)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(Auth(tm))
	api.Handle("/rentals/{id:[0-9]+}/handover/{direction}/qr.png", NewHandoverQRHandler(bookingSvc)).Methods(http.MethodGet)

	return router
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}
}
