// Package api implements the ruffyt HTTP service: a health check and an
// echo endpoint.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ruffyt/ruffyt/internal/logging"
)

type healthResponse struct {
	Status string `json:"status"`
}

type echoRequest struct {
	Message string `json:"message"`
}

type echoResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth serves GET /health with a fixed status payload.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleEcho serves POST /echo, returning the request's message unchanged.
// An absent message field decodes to the empty string, which is a valid
// message; only malformed JSON is rejected.
func handleEcho(log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req echoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Debug("rejected echo request", "error", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		writeJSON(w, http.StatusOK, echoResponse{Message: req.Message})
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
