// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may be any JSON shape (a student, a list, a message).
// Error responses always look like:
//
//	{ "error": "Student not found" }
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/students-crud/internal/storage"
)

// Response is the envelope returned for error cases.
type Response struct {
	Error string `json:"error"`
}

// Message is the envelope returned by operations that have nothing else
// to report, such as a delete.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body writes. Once WriteHeader
// is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Error builds an error envelope from a plain message.
func Error(msg string) Response {
	return Response{Error: msg}
}

// GeneralError wraps any Go error into the error envelope.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Response{Error: err.Error()}
}

// ValidationError renders a store validation failure; its messages are
// joined with ", ".
//
//	{ "error": "firstName is required, email must be a valid email address" }
func ValidationError(err *storage.ValidationError) Response {
	return Response{Error: err.Error()}
}
