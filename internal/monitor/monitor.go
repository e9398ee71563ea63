// Package monitor runs the polling loop: fetch the satellite position,
// evaluate the overhead and night conditions, and send a one-time
// notification per continuous sighting window.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/orbit/isswatch/internal/config"
	"github.com/orbit/isswatch/internal/geo"
	"github.com/orbit/isswatch/internal/metrics"
	"github.com/orbit/isswatch/internal/notify"
)

// ErrTooManyFailures is returned by Run when the consecutive-error budget
// is exhausted. This is a voluntary degraded-mode shutdown, not a crash.
var ErrTooManyFailures = errors.New("too many consecutive failures")

// PositionSource yields the satellite's current coordinates.
type PositionSource interface {
	Current(ctx context.Context) (geo.Coordinate, error)
}

// NightChecker reports whether it is night at the observer's location.
type NightChecker interface {
	IsNight(ctx context.Context, now time.Time) (bool, error)
}

// Renderer receives each cycle's sighting for display. Optional.
type Renderer interface {
	Render(s Sighting, notified bool)
}

// Sighting is one cycle's evaluation result. Ephemeral, never persisted.
type Sighting struct {
	Satellite  geo.Coordinate
	DistanceKm float64
	Overhead   bool
	Night      bool
	At         time.Time
}

// Config holds the loop parameters.
type Config struct {
	Observer             geo.Coordinate
	ThresholdKm          float64
	Interval             time.Duration
	MaxConsecutiveErrors int
	NightPolicy          config.NightPolicy
}

// Monitor owns the loop state. It runs strictly sequentially: cycles never
// overlap and the state needs no locking.
type Monitor struct {
	cfg       Config
	positions PositionSource
	night     NightChecker
	notifier  notify.Notifier
	renderer  Renderer
	logger    *slog.Logger
	now       func() time.Time

	// alreadyNotified is true only while the most recently observed
	// (overhead && night) was true; it clears the cycle either goes false.
	alreadyNotified   bool
	consecutiveErrors int
}

// New creates a Monitor. renderer may be nil.
func New(cfg Config, positions PositionSource, night NightChecker, notifier notify.Notifier, renderer Renderer, logger *slog.Logger) *Monitor {
	return &Monitor{
		cfg:       cfg,
		positions: positions,
		night:     night,
		notifier:  notifier,
		renderer:  renderer,
		logger:    logger,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled (returns nil) or the consecutive-error
// budget is exhausted (returns ErrTooManyFailures). The sleep between
// cycles is a fixed delay: it starts after the cycle completes, regardless
// of how long the fetches took.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"observer", m.cfg.Observer.String(),
		"threshold_km", m.cfg.ThresholdKm,
		"interval_seconds", m.cfg.Interval.Seconds(),
		"night_policy", string(m.cfg.NightPolicy),
	)

	for {
		if err := m.cycle(ctx); err != nil {
			return err
		}

		select {
		case <-time.After(m.cfg.Interval):
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return nil
		}
	}
}

// cycle runs one poll iteration. A non-nil return terminates the loop; a
// panic inside the cycle is recovered and counted like a fetch failure.
func (m *Monitor) cycle(ctx context.Context) (fatal error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("unexpected error in poll cycle", "panic", r)
			metrics.ObserveCycle("panic")
			fatal = m.recordFailure()
		}
	}()

	pos, err := m.positions.Current(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted mid-fetch; Run exits cleanly on the next select.
			return nil
		}
		metrics.IncFetchError("position")
		metrics.ObserveCycle("position_error")
		m.logger.Error("failed to fetch satellite position",
			"error", err,
			"attempt", m.consecutiveErrors+1,
			"max", m.cfg.MaxConsecutiveErrors,
		)
		return m.recordFailure()
	}

	now := m.now()
	distance := geo.Distance(m.cfg.Observer, pos)
	overhead := distance <= m.cfg.ThresholdKm

	night, err := m.night.IsNight(ctx, now)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		metrics.IncFetchError("daynight")
		if m.cfg.NightPolicy == config.NightStrict {
			metrics.ObserveCycle("night_error")
			m.logger.Error("failed to determine day/night status",
				"error", err,
				"attempt", m.consecutiveErrors+1,
				"max", m.cfg.MaxConsecutiveErrors,
			)
			return m.recordFailure()
		}
		m.logger.Error("failed to determine day/night status, assuming day", "error", err)
		night = false
	}

	m.consecutiveErrors = 0
	metrics.SetConsecutiveErrors(0)
	metrics.ObserveCycle("ok")

	sighting := Sighting{
		Satellite:  pos,
		DistanceKm: distance,
		Overhead:   overhead,
		Night:      night,
		At:         now,
	}
	metrics.SetDistanceKm(distance)
	metrics.SetOverhead(overhead)
	metrics.SetNight(night)

	m.logger.Info("poll cycle complete",
		"satellite", pos.String(),
		"distance_km", distance,
		"overhead", overhead,
		"night", night,
		"notified", m.alreadyNotified,
	)

	if overhead && night && !m.alreadyNotified {
		m.logger.Info("satellite overhead at night, sending notification", "distance_km", distance)
		m.sendNotification(ctx, sighting)
		// Set regardless of send outcome: retry is governed by the
		// condition clearing and re-triggering, not by delivery status.
		m.alreadyNotified = true
	} else if m.alreadyNotified && !(overhead && night) {
		m.alreadyNotified = false
		m.logger.Info("sighting conditions cleared, notification re-armed")
	}

	if m.renderer != nil {
		m.renderer.Render(sighting, m.alreadyNotified)
	}

	return nil
}

// sendNotification submits the email and logs failures distinctly. Send
// failures never affect loop continuation.
func (m *Monitor) sendNotification(ctx context.Context, s Sighting) {
	err := m.notifier.Notify(ctx, s.DistanceKm, s.At)
	if err == nil {
		metrics.IncNotification("sent")
		return
	}

	var authErr *notify.AuthError
	if errors.As(err, &authErr) {
		metrics.IncNotification("auth_error")
		m.logger.Error("smtp credentials rejected, check the configured app password", "error", err)
		return
	}

	metrics.IncNotification("send_error")
	m.logger.Error("failed to send notification", "error", err)
}

// recordFailure bumps the consecutive-error count and returns
// ErrTooManyFailures once the budget is exhausted.
func (m *Monitor) recordFailure() error {
	m.consecutiveErrors++
	metrics.SetConsecutiveErrors(m.consecutiveErrors)
	if m.consecutiveErrors >= m.cfg.MaxConsecutiveErrors {
		m.logger.Error("too many consecutive failures, stopping monitor", "count", m.consecutiveErrors)
		return ErrTooManyFailures
	}
	return nil
}
