package ratelimit

import (
	"context"
	"time"
)

// Limiter implements a token bucket rate limiter.
type Limiter struct {
	tokens     chan struct{}
	refillRate time.Duration
	done       chan struct{}
}

// NewLimiter creates a token bucket holding at most maxTokens, refilled
// one token per refillRate. The bucket starts full.
func NewLimiter(maxTokens int, refillRate time.Duration) *Limiter {
	l := &Limiter{
		tokens:     make(chan struct{}, maxTokens),
		refillRate: refillRate,
		done:       make(chan struct{}),
	}
	for i := 0; i < maxTokens; i++ {
		l.tokens <- struct{}{}
	}
	go l.refill()
	return l
}

// NewDeliveryLimiter paces notification sends: roughly one message per
// second with a small burst, matching what the chat API tolerates.
func NewDeliveryLimiter() *Limiter {
	return NewLimiter(3, time.Second)
}

func (l *Limiter) refill() {
	ticker := time.NewTicker(l.refillRate)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			select {
			case l.tokens <- struct{}{}:
			default:
				// Bucket full, drop the token.
			}
		case <-l.done:
			return
		}
	}
}

// Allow consumes a token if one is available, without blocking.
func (l *Limiter) Allow() bool {
	select {
	case <-l.tokens:
		return true
	default:
		return false
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	select {
	case <-l.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TokensAvailable returns the current number of buffered tokens.
func (l *Limiter) TokensAvailable() int {
	return len(l.tokens)
}

// Stop terminates the refill goroutine. The limiter must not be used
// afterwards.
func (l *Limiter) Stop() {
	close(l.done)
}
