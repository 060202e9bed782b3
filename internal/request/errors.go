package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FieldError describes one missing or invalid input.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s %s", f.Field, f.Message)
}

// ValidationError is returned before any network call when required inputs
// are missing. It carries every failure, not only the first.
type ValidationError struct {
	Failures []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.String())
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the failed fields in the order they were checked.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		fields = append(fields, f.Field)
	}

	return fields
}

// Validator collects field failures.
type Validator struct {
	failures []FieldError
}

// Required records a failure when value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if value == "" {
		v.failures = append(v.failures, FieldError{Field: field, Message: "is required"})
	}

	return v
}

// RequiredBody records a failure when present is false.
func (v *Validator) RequiredBody(field string, present bool) *Validator {
	if !present {
		v.failures = append(v.failures, FieldError{Field: field, Message: "is required"})
	}

	return v
}

// Err returns a *ValidationError with all collected failures, or nil.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}

	return &ValidationError{Failures: v.failures}
}

// TransportError is a network-level failure that persisted across every
// permitted attempt.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-success HTTP response from the remote service.
type APIError struct {
	StatusCode int
	Status     string
	Body       []byte
	Header     http.Header

	// Detail and ErrorCode are filled when the body is a TorBox envelope.
	Detail    string
	ErrorCode string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	if len(msg) > 256 {
		msg = msg[:256]
	}

	if e.ErrorCode != "" {
		return fmt.Sprintf("torbox API error: status %d (%s): %s", e.StatusCode, e.ErrorCode, msg)
	}

	return fmt.Sprintf("torbox API error: status %d: %s", e.StatusCode, msg)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the service asked the caller to slow down
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks for a 5xx status
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode <= 599
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
		Header:     resp.Header,
	}

	var envelope struct {
		Detail string `json:"detail"`
		Error  any    `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Detail = envelope.Detail
		if code, ok := envelope.Error.(string); ok {
			apiErr.ErrorCode = code
		}
	}

	return apiErr
}

// DeserializationError means the body was empty where a value was expected,
// or did not match the declared shape.
type DeserializationError struct {
	Target string
	Body   []byte
	Err    error
}

func (e *DeserializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to deserialize %s: empty response body", e.Target)
	}

	return fmt.Sprintf("failed to deserialize %s: %v", e.Target, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
