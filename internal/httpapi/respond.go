package httpapi

import (
	"encoding/json"
	"net/http"
)

// writeJSON serializes data with the given status code.
func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, msg string, statusCode int) {
	writeJSON(w, map[string]any{"message": msg}, statusCode)
}
