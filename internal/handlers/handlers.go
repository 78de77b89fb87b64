package handlers

import (
	"net/http"
)

// Endpoint describes one route served by the API
type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Endpoints lists the distillation API routes advertised by HomeHandler
var Endpoints = []Endpoint{
	{http.MethodGet, "/health"},
	{http.MethodPost, "/api/simulate"},
	{http.MethodPost, "/api/v1/msd/simulate"},
	{http.MethodGet, "/api/v1/msd/circuit"},
	{http.MethodGet, "/api/v1/msd/health"},
}

// HomeHandler describes the service and its routes at the root path
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "Magic State Distillation",
		"protocol":  "15-to-1",
		"version":   "1.0.0",
		"endpoints": Endpoints,
	})
}
