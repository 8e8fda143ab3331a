package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/appellation/chess/core/log"
)

// SetupStatusEndpoints registers the health check and the Prometheus scrape endpoint
func SetupStatusEndpoints(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Error("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
