// Package probe implements the external health probe: a single HTTP check
// against the service's /health/ endpoint and the aggregated state machine a
// container supervisor applies to consecutive results.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Defaults mirror the container HEALTHCHECK directive.
const (
	DefaultInterval    = 30 * time.Second
	DefaultTimeout     = 30 * time.Second
	DefaultGracePeriod = 5 * time.Second
	DefaultThreshold   = 3
)

// Status is the aggregated health of the service as seen by the supervisor.
type Status string

const (
	StatusStarting  Status = "starting"
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Tracker is the supervisor-side state machine: starting until the first
// success after the grace period, unhealthy after threshold consecutive
// failures, healthy again on any subsequent success. There is no terminal
// state. Safe for concurrent use: Status and Failures may be read while the
// probe loop records results.
type Tracker struct {
	threshold int

	mu       sync.Mutex
	failures int
	status   Status
}

// NewTracker creates a tracker that flips to unhealthy after threshold
// consecutive failures. threshold < 1 uses the default.
func NewTracker(threshold int) *Tracker {
	if threshold < 1 {
		threshold = DefaultThreshold
	}
	return &Tracker{threshold: threshold, status: StatusStarting}
}

// Status returns the current aggregated state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Failures returns the current consecutive failure count.
func (t *Tracker) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

// Record feeds one probe result into the state machine and returns the
// resulting status.
func (t *Tracker) Record(success bool) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	if success {
		t.failures = 0
		t.status = StatusHealthy
		return t.status
	}

	t.failures++
	// A failing probe during startup does not leave starting; only the
	// failure threshold does.
	if t.failures >= t.threshold {
		t.status = StatusUnhealthy
	}
	return t.status
}

// Check performs a single probe attempt: GET url with the given timeout.
// Any transport error, timeout or non-200 status is a failure.
func Check(ctx context.Context, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
