// Package jsonutil provides helper functions for JSON API responses.
//
// Every error body has the shape {"message": "..."}; machine-readable codes
// are added with ErrorCode as {"message": "...", "code": "..."}.
package jsonutil

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, http.StatusOK, map[string]any{
//	    "events": events,
//	    "total":  total,
//	})
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created JSON response.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Message writes {"message": msg} with the given status.
// Used for both success acknowledgements and errors.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// ErrorCode writes {"message": msg, "code": code} with the given status.
func ErrorCode(w http.ResponseWriter, status int, msg, code string) {
	JSON(w, status, map[string]string{"message": msg, "code": code})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, msg string) {
	Message(w, http.StatusBadRequest, msg)
}

// Unauthorized writes a 401 Unauthorized error response.
func Unauthorized(w http.ResponseWriter, msg string) {
	Message(w, http.StatusUnauthorized, msg)
}

// Forbidden writes a 403 Forbidden error response.
func Forbidden(w http.ResponseWriter, msg string) {
	Message(w, http.StatusForbidden, msg)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, msg string) {
	Message(w, http.StatusNotFound, msg)
}

// Conflict writes a 409 Conflict error response.
func Conflict(w http.ResponseWriter, msg string) {
	Message(w, http.StatusConflict, msg)
}

// InternalError writes a 500 Internal Server Error response.
// Do not expose internal details to clients; log the actual error separately.
func InternalError(w http.ResponseWriter, msg string) {
	Message(w, http.StatusInternalServerError, msg)
}

// Decode reads and decodes JSON from the request body into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
