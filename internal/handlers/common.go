package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// validate checks struct tags on request payloads.
var validate = validator.New()

// MessageResponse is a plain status message body
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, MessageResponse{Message: message}, statusCode)
}

// respondJSON writes a JSON response body
func respondJSON(w http.ResponseWriter, body interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondServerError logs the underlying cause and returns the generic
// message; callers never see internals.
func respondServerError(w http.ResponseWriter, err error, operation string) {
	log.Error().Err(err).Msg(operation)
	respondError(w, "Server error", http.StatusInternalServerError)
}
