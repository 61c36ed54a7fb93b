package metrics

import (
	"context"
	"log/slog"
	"time"
)

type ProbeEvent struct {
	Instance  string
	Timestamp time.Time
	Alive     bool
	Latency   time.Duration
}

// Collector consumes probe events off a buffered channel and folds them
// into Metrics. Emitters drop events when the buffer is full rather than
// block a probe cycle.
type Collector struct {
	eventCh chan ProbeEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan ProbeEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit records an event without blocking; full buffers drop the event.
func (c *Collector) Emit(event ProbeEvent) {
	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Probe metrics collector started")
	defer c.logger.Info("Probe metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.metrics.RecordProbe(event.Instance, event.Alive, event.Latency)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.metrics.RecordProbe(event.Instance, event.Alive, event.Latency)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
