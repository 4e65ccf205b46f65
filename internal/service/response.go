package service

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// RequestError is a failure caused by the request itself, Kind is one of
// ErrValidation or ErrNotFound.
type RequestError struct {
	Kind    error
	Message string
}

func (e RequestError) Error() string {
	return e.Message
}

func (e RequestError) Unwrap() error {
	return e.Kind
}

func invalid(message string) error {
	return RequestError{Kind: ErrValidation, Message: message}
}

func notFound(message string) error {
	return RequestError{Kind: ErrNotFound, Message: message}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError responds with err's message, the status follows from the kind
// of error.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, statusOf(err), ErrorResponse{Error: err.Error()})
}

// WriteFailure reports an error that happened while serving a valid request,
// err is passed back to the client as details.
func WriteFailure(w http.ResponseWriter, message string, err error) {
	WriteJSON(w, statusOf(err), ErrorResponse{Error: message, Details: err.Error()})
}

// decodeBody reads a json request body into out, an unreadable body is
// treated the same as an empty one.
func decodeBody(r *http.Request, out any) {
	_ = json.NewDecoder(r.Body).Decode(out)
}
