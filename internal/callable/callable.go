// Package callable implements the request and response envelope of
// callable functions: a JSON body {"data": ...} answered with
// {"result": ...} or {"error": {"status", "message"}}.
package callable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

// maxBodyBytes bounds a callable request body
const maxBodyBytes = 1 << 20

// Code is a caller-visible error classification
type Code string

const (
	CodeUnauthenticated   Code = "unauthenticated"
	CodeInvalidArgument   Code = "invalid-argument"
	CodeNotFound          Code = "not-found"
	CodeResourceExhausted Code = "resource-exhausted"
	CodeInternal          Code = "internal"
)

// Status returns the wire status name, e.g. INVALID_ARGUMENT
func (c Code) Status() string {
	switch c {
	case CodeUnauthenticated:
		return "UNAUTHENTICATED"
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus returns the HTTP status code for the classification
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error safe to show to the caller. Cause is logged only.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a caller-facing error
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Internal wraps cause behind a generic message
func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, Cause: cause}
}

type request struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Decode reads the {"data": ...} envelope into dst. A missing or null data
// field leaves dst untouched. Malformed bodies are invalid-argument errors.
func Decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return &Error{Code: CodeInvalidArgument, Message: "Could not read request body", Cause: err}
	}
	if len(body) > maxBodyBytes {
		return NewError(CodeInvalidArgument, "Request body too large")
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		return &Error{Code: CodeInvalidArgument, Message: "Request body must be a JSON object with a data field", Cause: err}
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(req.Data, dst); err != nil {
		return &Error{Code: CodeInvalidArgument, Message: "Invalid request data", Cause: err}
	}
	return nil
}

// WriteResult writes a successful {"result": v} response
func WriteResult(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, map[string]any{"result": v})
}

// WriteError writes err as a callable error. Errors that are not *Error
// become internal errors with a generic message. The full cause is logged.
func WriteError(w http.ResponseWriter, err error) {
	var ce *Error
	if !errors.As(err, &ce) {
		ce = Internal("Internal error", err)
	}
	if ce.Cause != nil {
		log.Printf("callable %s: %s: %v", ce.Code, ce.Message, ce.Cause)
	}
	writeJSON(w, ce.Code.HTTPStatus(), map[string]errorBody{
		"error": {Status: ce.Code.Status(), Message: ce.Message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
