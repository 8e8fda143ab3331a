package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/appellation/chess/metrics"
)

func TestStatusEndpoints_Health(t *testing.T) {
	router := mux.NewRouter()
	SetupStatusEndpoints(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusEndpoints_Metrics(t *testing.T) {
	router := mux.NewRouter()
	SetupStatusEndpoints(router)
	metrics.EventsReceived.WithLabelValues("MESSAGE_CREATE").Inc()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chess_events_received_total")
}

func TestStatusEndpoints_MethodNotAllowed(t *testing.T) {
	router := mux.NewRouter()
	SetupStatusEndpoints(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
