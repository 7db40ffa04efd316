package api

import (
	"encoding/json"
	"fmt"
)

// APIError describes a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// errorBody matches the backend's structured error payload.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// newAPIError builds an APIError from a response body, preferring the
// server-supplied detail or message field over a generic fallback.
func newAPIError(status int, body []byte) *APIError {
	detail := fmt.Sprintf("Request failed (%d)", status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			detail = eb.Detail
		} else if eb.Message != "" {
			detail = eb.Message
		}
	}
	return &APIError{Status: status, Detail: detail}
}
