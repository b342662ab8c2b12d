package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope returned by every API handler.
type APIResponse struct {
	Message string      `json:"message"`
	Error   bool        `json:"error"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteJSON writes a success envelope with the given payload.
func WriteJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Message: message,
		Error:   false,
		Success: true,
		Data:    data,
	})
}

// WriteError writes a failure envelope. Downstream error messages are
// passed through verbatim.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Message: message,
		Error:   true,
		Success: false,
	})
}
