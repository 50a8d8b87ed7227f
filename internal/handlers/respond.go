package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caredock/caredock-bookings/pkg/logger"
)

// Envelope is the wire shape every endpoint answers with.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{Success: false, Message: message})
}

func writeFieldErrors(w http.ResponseWriter, statusCode int, message string, fields map[string]string) {
	writeEnvelope(w, statusCode, Envelope{Success: false, Message: message, Errors: fields})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
