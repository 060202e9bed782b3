package request

import (
	"net/http"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestID stamps a request id on requests that don't carry one. Placed
// outside Retry, all attempts of one call share the id.
func RequestID() Middleware {
	return func(next Sender) Sender {
		return SenderFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) == "" {
				req.Header.Set(RequestIDHeader, uuid.NewString())
			}

			return next.Do(req)
		})
	}
}

// Headers sets static headers, such as the User-Agent, when absent.
func Headers(headers map[string]string) Middleware {
	return func(next Sender) Sender {
		if len(headers) == 0 {
			return next
		}

		return SenderFunc(func(req *http.Request) (*http.Response, error) {
			for k, v := range headers {
				if req.Header.Get(k) == "" {
					req.Header.Set(k, v)
				}
			}

			return next.Do(req)
		})
	}
}
