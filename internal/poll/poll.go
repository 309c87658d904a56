// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package poll waits for upstream work to finish. The engine itself never
// polls; this is the status-poll capability its caller (the CLI) supplies
// when a document file is still being produced by extraction.
package poll

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"
)

// BaseDelay is the default initial backoff between probe attempts. Tests
// override this to avoid real sleeps.
var BaseDelay = time.Second

const defaultMaxAttempts = 5

// Probe reports whether the awaited condition holds. A non-nil error stops
// the wait immediately.
type Probe func(ctx context.Context) (done bool, err error)

// Wait runs probe with exponential backoff until it reports done, the
// attempt cap is reached, or the context is cancelled. The delay starts at
// baseDelay and doubles each attempt.
//
// When maxAttempts is 0 the default (5) is used; when baseDelay is 0 the
// package default applies.
func Wait(ctx context.Context, probe Probe, baseDelay time.Duration, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = BaseDelay
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		done, err := probe(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == maxAttempts-1 {
			break
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("gave up after %d attempts", maxAttempts)
}

// FileExists is a Probe that waits for path to appear on disk.
func FileExists(path string) Probe {
	return func(context.Context) (bool, error) {
		_, err := os.Stat(path)
		if err == nil {
			return true, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
}
