package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rental-site/internal/logging"
)

// writeJSON encodes v as the response body with the given status code.
// Encoding errors are logged since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes {"error": message} with the given status code.
func writeJSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// queryInt parses an integer query parameter. Missing or non-numeric values
// yield def.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logging.Debug("Ignoring non-numeric %s=%q", key, raw)
		return def
	}
	return v
}
