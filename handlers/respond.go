package handlers

import (
	"encoding/json"
	"net/http"
)

// apiError carries a response status out of a store update closure.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Every failure goes out as an {"error": ...} value so clients only
// ever parse one failure shape.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
