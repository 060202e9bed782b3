package request

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/ratelimit"
)

// ParseRateLimit parses strings like "250/minute", "5/second" or "10/s".
// It returns nil for an empty or malformed value, which disables limiting.
func ParseRateLimit(rateStr string) ratelimit.Limiter {
	rateStr = strings.TrimSpace(rateStr)
	if rateStr == "" {
		return nil
	}

	parts := strings.SplitN(rateStr, "/", 2)
	if len(parts) != 2 {
		return nil
	}

	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || count <= 0 {
		return nil
	}

	var per time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "s", "sec", "second":
		per = time.Second
	case "m", "min", "minute":
		per = time.Minute
	case "h", "hr", "hour":
		per = time.Hour
	default:
		return nil
	}

	return ratelimit.New(count, ratelimit.Per(per), ratelimit.WithoutSlack)
}

// RateLimit blocks each send until the limiter admits it or the request
// context ends. A nil limiter disables the stage.
func RateLimit(rl ratelimit.Limiter) Middleware {
	return func(next Sender) Sender {
		if rl == nil {
			return next
		}

		return SenderFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if err := take(ctx, rl); err != nil {
				return nil, err
			}

			return next.Do(req)
		})
	}
}

// take waits for a slot. The limiter cannot be interrupted, so an abandoned
// wait still consumes the slot it was queued for.
func take(ctx context.Context, rl ratelimit.Limiter) error {
	admitted := make(chan struct{})
	go func() {
		rl.Take()
		close(admitted)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-admitted:
	}

	return ctx.Err()
}
