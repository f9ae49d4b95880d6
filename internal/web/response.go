package web

import (
	"encoding/json"
	"net/http"
)

// errorResponse mirrors the error body of the prediction API so that
// clients of /api/predict can treat both the same way.
type errorResponse struct {
	Error  string   `json:"error"`
	Detail string   `json:"detalle,omitempty"`
	Fields []string `json:"campos,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Error: message, Detail: detail})
}
