package request

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy bounds how a single logical request is re-sent.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

func (p RetryPolicy) normalize() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff < 0 {
		p.InitialBackoff = 0
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	if p.InitialBackoff > p.MaxBackoff {
		p.InitialBackoff = p.MaxBackoff
	}

	return p
}

// Backoff returns the wait before the given retry (1 = first retry).
func (p RetryPolicy) Backoff(retry int) time.Duration {
	p = p.normalize()

	d := p.InitialBackoff
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}

	return d
}

// Retryable reports whether a status code is worth another attempt.
func Retryable(statusCode int) bool {
	switch {
	case statusCode == http.StatusTooManyRequests, statusCode == http.StatusRequestTimeout:
		return true
	case statusCode >= 500 && statusCode <= 599:
		return true
	}

	return false
}

// Retry re-sends requests that fail with a network error or a retryable
// status. Definitive client errors are returned after the first attempt.
// When the request context ends the handler stops and returns ctx.Err().
func Retry(policy RetryPolicy, logger zerolog.Logger) Middleware {
	policy = policy.normalize()

	return func(next Sender) Sender {
		return SenderFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()

			var lastErr error
			for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}

				attemptReq, err := cloneForAttempt(ctx, req, attempt)
				if err != nil {
					return nil, err
				}

				resp, err := next.Do(attemptReq)
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return nil, ctxErr
					}

					lastErr = err
					if attempt == policy.MaxAttempts || !replayable(req) {
						return nil, &TransportError{Attempts: attempt, Err: err}
					}

					wait := policy.Backoff(attempt)
					logger.Debug().
						Err(err).
						Str("method", req.Method).
						Str("url", req.URL.Redacted()).
						Int("attempt", attempt).
						Dur("backoff", wait).
						Msg("request failed, retrying")

					if err := sleep(ctx, wait); err != nil {
						return nil, err
					}

					continue
				}

				if !Retryable(resp.StatusCode) || attempt == policy.MaxAttempts || !replayable(req) {
					return resp, nil
				}

				wait := retryAfter(resp)
				if wait <= 0 {
					wait = policy.Backoff(attempt)
				}
				if wait > policy.MaxBackoff {
					wait = policy.MaxBackoff
				}

				drain(resp)

				logger.Debug().
					Str("method", req.Method).
					Str("url", req.URL.Redacted()).
					Int("status", resp.StatusCode).
					Int("attempt", attempt).
					Dur("backoff", wait).
					Msg("retryable status, retrying")

				if err := sleep(ctx, wait); err != nil {
					return nil, err
				}
			}

			return nil, &TransportError{Attempts: policy.MaxAttempts, Err: lastErr}
		})
	}
}

// cloneForAttempt gives every attempt its own request and a fresh body so
// stages further down may mutate headers freely.
func cloneForAttempt(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	clone := req.Clone(ctx)
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body

	return clone, nil
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func retryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}

	secs, err := strconv.Atoi(ra)
	if err != nil || secs < 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
