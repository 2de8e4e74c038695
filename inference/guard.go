package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsai/types"
)

// Guarded bounds every call of the wrapped provider with a deadline and
// validates results before they leave the provider boundary.
type Guarded struct {
	next    Provider
	timeout time.Duration
}

// Guard wraps p. A non-positive timeout disables the deadline.
func Guard(p Provider, timeout time.Duration) *Guarded {
	return &Guarded{next: p, timeout: timeout}
}

func (g *Guarded) Name() string { return g.next.Name() }

func (g *Guarded) Summarize(ctx context.Context, text string, bounds types.SummaryBounds) (string, error) {
	summary, err := bounded(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.next.Summarize(ctx, text, bounds)
	})
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

func (g *Guarded) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	res, err := bounded(ctx, g.timeout, func(ctx context.Context) (types.SentimentResult, error) {
		return g.next.Classify(ctx, text)
	})
	if err != nil {
		return types.SentimentResult{}, err
	}
	return ValidateSentiment(res)
}

// bounded runs fn and returns when it finishes or the deadline passes,
// whichever comes first. A provider that ignores ctx is abandoned, not awaited.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("inference call aborted: %w", ctx.Err())
	}
}
