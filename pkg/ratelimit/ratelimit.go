package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter enforces a tokens-per-minute budget for LLM calls. Callers
// report consumed tokens after each response; Wait blocks until the budget
// allows them.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter creates a limiter allowing maxPerMinute tokens per minute.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		max:     maxPerMinute,
	}
}

// Wait reserves the given number of tokens, blocking until they are
// available or the context is done.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if tokens > t.max {
		tokens = t.max
	}
	return t.limiter.WaitN(ctx, tokens)
}

// GetRemaining returns the currently available token budget.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
