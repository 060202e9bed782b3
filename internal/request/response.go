package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// EnsureSuccess returns resp unchanged for a 2xx status. Otherwise it reads
// and closes the body and returns an *APIError.
func EnsureSuccess(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read error body (status %d): %w", resp.StatusCode, err)
	}

	return nil, newAPIError(resp, body)
}

// DecodeJSON reads the whole body into a new T.
func DecodeJSON[T any](resp *http.Response) (*T, error) {
	defer resp.Body.Close()

	target := fmt.Sprintf("%T", *new(T))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &DeserializationError{Target: target}
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DeserializationError{Target: target, Body: body, Err: err}
	}

	return &out, nil
}

// ReadString returns the raw body as text.
func ReadString(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) == 0 {
		return "", &DeserializationError{Target: "string"}
	}

	return string(body), nil
}

// Discard drains and closes the body so the connection can be reused.
func Discard(resp *http.Response) {
	drain(resp)
}
