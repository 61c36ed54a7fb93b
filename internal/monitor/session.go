package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/furnet-labs/furnet/internal/probe"
)

// State is the scheduling state of a Session.
type State string

const (
	StateIdle    State = "idle"
	StatePolling State = "polling"
	StateStopped State = "stopped"
)

// Prober runs one fan-out of health checks.
type Prober interface {
	ProbeAll(ctx context.Context, urls []string) []probe.HealthStatus
}

// Snapshot is a point-in-time copy of the session's state.
type Snapshot struct {
	Instances []string                      `json:"instances"`
	Statuses  map[string]probe.HealthStatus `json:"statuses"`
}

// Session schedules probe cycles against a mutable set of instance URLs.
// Cycles run sequentially: a tick that fires while a cycle is in flight is
// served only after that cycle completes, so there is never more than one
// ProbeAll running per session.
type Session struct {
	logger   *slog.Logger
	prober   Prober
	interval time.Duration
	clk      clock.Clock

	mutex    sync.Mutex
	urls     []string
	statuses map[string]probe.HealthStatus
	state    State
	cancel   context.CancelFunc
}

// NewSession creates a stopped session seeded with the given URLs. The seed
// list is deduplicated by plain string equality, like every later AddURL.
func NewSession(logger *slog.Logger, prober Prober, interval time.Duration, seedURLs []string, clk clock.Clock) *Session {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if clk == nil {
		clk = clock.New()
	}

	s := &Session{
		logger:   logger,
		prober:   prober,
		interval: interval,
		clk:      clk,
		statuses: make(map[string]probe.HealthStatus),
		state:    StateIdle,
	}

	for _, u := range seedURLs {
		s.AddURL(u)
	}

	return s
}

// Start begins the probe loop: one cycle immediately, then one per
// interval. Calling Start on a running session is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mutex.Lock()
	if s.cancel != nil {
		s.mutex.Unlock()
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateIdle
	s.mutex.Unlock()

	go s.run(runCtx)
}

// Stop halts scheduling. It is idempotent. An in-flight cycle is not
// interrupted, but its results are discarded instead of applied.
func (s *Session) Stop() {
	s.mutex.Lock()
	if s.state == StateStopped {
		s.mutex.Unlock()
		return
	}
	s.state = StateStopped
	cancel := s.cancel
	s.mutex.Unlock()

	if cancel != nil {
		cancel()
	}
	s.logger.Info("Monitoring session stopped")
}

// AddURL adds a URL to the monitored set. Duplicates (by string equality;
// URLs are deliberately not canonicalized here) are ignored. The new URL is
// picked up on the next scheduled cycle, not probed immediately.
func (s *Session) AddURL(url string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.urls {
		if existing == url {
			return
		}
	}
	s.urls = append(s.urls, url)
}

// RemoveURL removes a URL from the monitored set and deletes its status
// entry immediately, so no stale badge lingers for an unmonitored URL.
func (s *Session) RemoveURL(url string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, existing := range s.urls {
		if existing == url {
			s.urls = append(s.urls[:i], s.urls[i+1:]...)
			break
		}
	}
	delete(s.statuses, url)
}

// Snapshot returns a copy of the monitored set and the latest statuses.
func (s *Session) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	snap := Snapshot{
		Instances: make([]string, len(s.urls)),
		Statuses:  make(map[string]probe.HealthStatus, len(s.statuses)),
	}
	copy(snap.Instances, s.urls)
	for url, status := range s.statuses {
		snap.Statuses[url] = status
	}

	return snap
}

// State returns the session's current scheduling state.
func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

func (s *Session) run(ctx context.Context) {
	ticker := s.clk.Ticker(s.interval)
	defer ticker.Stop()

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Session) cycle(ctx context.Context) {
	s.mutex.Lock()
	if s.state == StateStopped {
		s.mutex.Unlock()
		return
	}
	if len(s.urls) == 0 {
		// Nothing monitored: skip the probe, keep the timer running.
		s.mutex.Unlock()
		return
	}
	urls := make([]string, len(s.urls))
	copy(urls, s.urls)
	s.state = StatePolling
	s.mutex.Unlock()

	statuses := s.prober.ProbeAll(ctx, urls)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StateStopped {
		// Stopped while probing: discard the late results.
		return
	}
	s.state = StateIdle

	for _, status := range statuses {
		if s.monitoredLocked(status.InstanceURL) {
			s.statuses[status.InstanceURL] = status
		}
	}
}

func (s *Session) monitoredLocked(url string) bool {
	for _, existing := range s.urls {
		if existing == url {
			return true
		}
	}
	return false
}
