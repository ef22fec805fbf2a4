package scraper

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds the retry policy for portal requests.
type RetryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig returns a conservative retry policy suitable for
// the ecourts portal, which is frequently slow or briefly unavailable.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
	}
}

// retryWithBackoff executes fn with exponential backoff and jitter.
// Only errors whose class is retryable are retried; client errors and
// not-found responses fail immediately.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, logger zerolog.Logger, fn func() error) error {
	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var portalErr *PortalError
		if errors.As(lastErr, &portalErr) && !shouldRetry(portalErr.ErrorClass) {
			return lastErr
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		// Add jitter: +-20% of backoff
		sleep := backoff
		if span := int64(backoff) / 5; span > 0 {
			jitter := time.Duration(rand.Int63n(span))
			if rand.Intn(2) == 0 {
				jitter = -jitter
			}
			sleep += jitter
		}

		RetriesTotal.Inc()
		logger.Warn().
			Int("attempt", attempt).
			Dur("backoff", sleep).
			Err(lastErr).
			Msg("Portal request failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, cfg.MaxAttempts, lastErr)
}
