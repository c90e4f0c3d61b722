// Package webapi holds the JSON response helpers shared by all feature
// handlers. Every response carries a "success" flag; failures carry a
// human-readable "message" and, where the caller can act on it, a
// machine-readable "reason" code.
package webapi

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/limits"
	"go.uber.org/zap"
)

// OK writes a 200 response with the given payload merged under
// success=true.
func OK(w http.ResponseWriter, payload map[string]any) {
	JSON(w, http.StatusOK, payload)
}

// Created writes a 201 response with the given payload merged under
// success=true.
func Created(w http.ResponseWriter, payload map[string]any) {
	JSON(w, http.StatusCreated, payload)
}

// JSON writes a success response with an explicit status code.
func JSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

// Fail writes an error response with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]any{"success": false, "message": message})
}

// Denied writes an error response carrying a machine-readable reason
// code alongside the message, used for RSVP denials and ownership gates.
func Denied(w http.ResponseWriter, status int, reason, message string) {
	write(w, status, map[string]any{"success": false, "reason": reason, "message": message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

// Forbidden writes a 403 response.
func Forbidden(w http.ResponseWriter, message string) {
	Fail(w, http.StatusForbidden, message)
}

// ServerError logs err and writes a generic 500 response. The raw error
// is never sent to the client.
func ServerError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, zap.Error(err))
	}
	Fail(w, http.StatusInternalServerError, "Internal server error")
}

// Decode parses a JSON request body into dst. Returns false (after
// writing a 400 response) when the body is malformed or oversized.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		BadRequest(w, "Malformed request body")
		return false
	}
	return true
}

func write(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
