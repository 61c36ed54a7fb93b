package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/furnet-labs/furnet/internal/metrics"
	"github.com/furnet-labs/furnet/internal/peer"
	"github.com/furnet-labs/furnet/internal/profile"
)

// HealthStatus is the outcome of one liveness check. It is ephemeral:
// every probe cycle replaces the previous status for the same URL.
type HealthStatus struct {
	InstanceURL    string `json:"instance_url"`
	IsAlive        bool   `json:"is_alive"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
	Error          string `json:"error,omitempty"`
	Name           string `json:"name,omitempty"`
	Emoji          string `json:"emoji,omitempty"`
}

const defaultTimeout = 5 * time.Second

// Engine fans out health probes against peer instances.
type Engine struct {
	logger    *slog.Logger
	client    *http.Client
	timeout   time.Duration
	collector *metrics.Collector
}

// NewEngine creates an Engine whose individual probes are bounded by
// timeout. A non-positive timeout falls back to 5 seconds.
func NewEngine(logger *slog.Logger, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Engine{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// WithCollector attaches a metrics collector fed with one event per probe.
func (e *Engine) WithCollector(collector *metrics.Collector) *Engine {
	e.collector = collector
	return e
}

// ProbeAll checks every URL concurrently and returns exactly one status per
// input URL, in input order. A probe that exceeds the timeout is reported
// as dead; it never blocks its siblings or the cycle.
func (e *Engine) ProbeAll(ctx context.Context, urls []string) []HealthStatus {
	statuses := make([]HealthStatus, len(urls))

	var wg sync.WaitGroup
	for i, instanceURL := range urls {
		wg.Add(1)
		go func(i int, instanceURL string) {
			defer wg.Done()
			statuses[i] = e.probe(ctx, instanceURL)
			e.emit(statuses[i])
		}(i, instanceURL)
	}
	wg.Wait()

	return statuses
}

func (e *Engine) emit(status HealthStatus) {
	if e.collector == nil {
		return
	}

	event := metrics.ProbeEvent{
		Instance:  status.InstanceURL,
		Timestamp: time.Now(),
		Alive:     status.IsAlive,
	}
	if status.ResponseTimeMs != nil {
		event.Latency = time.Duration(*status.ResponseTimeMs) * time.Millisecond
	}

	e.collector.Emit(event)
}

func (e *Engine) probe(ctx context.Context, instanceURL string) HealthStatus {
	status := HealthStatus{InstanceURL: instanceURL}

	probeCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	target := instanceURL + peer.MePath
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, target, nil)
	if err != nil {
		status.Error = fmt.Sprintf("invalid URL: %v", err)
		return status
	}

	start := time.Now()
	res, err := e.client.Do(req)
	if err != nil {
		if probeCtx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
			status.Error = fmt.Sprintf("timeout after %s", e.timeout)
		} else {
			status.Error = fmt.Sprintf("unreachable: %v", err)
		}
		e.logger.Debug("Probe failed",
			slog.String("url", instanceURL),
			slog.String("error", status.Error))
		return status
	}
	defer res.Body.Close()

	elapsed := time.Since(start).Milliseconds()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		status.Error = fmt.Sprintf("status %d", res.StatusCode)
		return status
	}

	status.IsAlive = true
	status.ResponseTimeMs = &elapsed

	// Enrichment only: a live peer with an undecodable body stays alive.
	var p profile.AnimalProfile
	if err := json.NewDecoder(res.Body).Decode(&p); err == nil {
		status.Name = p.Name
		status.Emoji = p.Emoji
	}

	return status
}
