package llm

import (
	"context"
	"log"
	"time"

	"socialforge/internal/prompt"
)

// Middleware decorates a Client to inject cross-cutting concerns.
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// RateLimit throttles calls through a token-bucket limiter. If rps <= 0 the
// middleware is a pass-through.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }

func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}

func (c *rateLimited) Generate(ctx context.Context, req prompt.Request) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return c.next.Generate(ctx, req)
}

// Logging logs each call's duration and outcome.
func Logging() Middleware {
	return func(next Client) Client {
		return &logged{next: next}
	}
}

type logged struct {
	next Client
}

func (c *logged) Name() string { return c.next.Name() }
func (c *logged) Close() error { return c.next.Close() }

func (c *logged) Generate(ctx context.Context, req prompt.Request) (string, error) {
	start := time.Now()
	out, err := c.next.Generate(ctx, req)
	if err != nil {
		log.Printf("llm: %s failed after %s: %v", c.next.Name(), time.Since(start).Round(time.Millisecond), err)
		return out, err
	}
	log.Printf("llm: %s returned %d bytes in %s", c.next.Name(), len(out), time.Since(start).Round(time.Millisecond))
	return out, nil
}
