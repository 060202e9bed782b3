package request

import (
	"net/http"
)

// Sender sends a single HTTP request.
type Sender interface {
	Do(req *http.Request) (*http.Response, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(req *http.Request) (*http.Response, error)

func (f SenderFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps the next Sender in the pipeline.
type Middleware func(next Sender) Sender

// Chain composes middlewares around base. The first middleware is the
// outermost one: Chain(t, a, b).Do(r) runs a, then b, then t.
func Chain(base Sender, middlewares ...Middleware) Sender {
	s := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		s = middlewares[i](s)
	}

	return s
}
