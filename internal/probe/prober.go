package probe

import (
	"context"
	"time"

	"pdf-converter/internal/domain"
)

// Prober polls the health endpoint on a fixed interval and drives a Tracker.
// It runs outside the service process and shares nothing with it; the HTTP
// boundary is the only communication channel.
type Prober struct {
	URL         string
	Interval    time.Duration
	Timeout     time.Duration
	GracePeriod time.Duration

	tracker *Tracker
	logger  domain.Logger

	// OnTransition is called whenever the aggregated status changes.
	OnTransition func(from, to Status)
}

// NewProber creates a prober with the default interval, timeout, grace
// period and failure threshold.
func NewProber(url string, logger domain.Logger) *Prober {
	return &Prober{
		URL:         url,
		Interval:    DefaultInterval,
		Timeout:     DefaultTimeout,
		GracePeriod: DefaultGracePeriod,
		tracker:     NewTracker(DefaultThreshold),
		logger:      logger,
	}
}

// Status returns the current aggregated state.
func (p *Prober) Status() Status {
	return p.tracker.Status()
}

// Run probes until the context is cancelled. The first attempt happens after
// the startup grace period, then every interval.
func (p *Prober) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.GracePeriod):
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.probeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probeOnce(ctx)
		}
	}
}

func (p *Prober) probeOnce(ctx context.Context) {
	before := p.tracker.Status()
	err := Check(ctx, p.URL, p.Timeout)
	after := p.tracker.Record(err == nil)

	if err != nil {
		p.logger.Warn("Probe failed", "url", p.URL, "failures", p.tracker.Failures(), "error", err)
	} else {
		p.logger.Debug("Probe succeeded", "url", p.URL)
	}

	if before != after {
		p.logger.Info("Health state changed", "from", string(before), "to", string(after))
		if p.OnTransition != nil {
			p.OnTransition(before, after)
		}
	}
}
