package torbox

import (
	"errors"

	"github.com/dylanmazurek/torbox-go/internal/request"
)

var ErrInvalidConfig = errors.New("invalid torbox configuration")

type (
	// APIError is a non-2xx response. Detail and ErrorCode carry the
	// envelope's detail and error fields when present.
	APIError = request.APIError

	// ValidationError lists every missing required input of a call. It is
	// returned before anything is sent.
	ValidationError = request.ValidationError

	FieldError = request.FieldError

	// TransportError is a network failure that outlived every retry.
	TransportError = request.TransportError

	// DeserializationError means the body was empty or did not decode.
	DeserializationError = request.DeserializationError
)

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsUnauthorized reports whether err is an APIError with status 401 or 403.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsRateLimited()
}
