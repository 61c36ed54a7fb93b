package metrics

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mutex     sync.RWMutex
	probes    map[string]int64
	failures  map[string]int64
	latencies map[string][]time.Duration
	alive     map[string]bool
	startTime time.Time
}

type Snapshot struct {
	TotalProbes int64                      `json:"total_probes"`
	Uptime      time.Duration              `json:"uptime"`
	Instances   map[string]InstanceMetrics `json:"instances"`
}

type InstanceMetrics struct {
	Probes     int64         `json:"probes"`
	Failures   int64         `json:"failures"`
	Alive      bool          `json:"alive"`
	AvgLatency time.Duration `json:"avg_latency"`
	P50Latency time.Duration `json:"p50_latency"`
	P95Latency time.Duration `json:"p95_latency"`
	P99Latency time.Duration `json:"p99_latency"`
}

func (m *Metrics) RecordProbe(instance string, alive bool, latency time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.probes[instance]++
	m.alive[instance] = alive

	if !alive {
		m.failures[instance]++
		return
	}

	m.latencies[instance] = append(m.latencies[instance], latency)

	if len(m.latencies[instance]) > 1000 {
		m.latencies[instance] = m.latencies[instance][1:]
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Instances: make(map[string]InstanceMetrics),
	}

	for instance := range m.probes {
		snap.TotalProbes += m.probes[instance]

		im := InstanceMetrics{
			Probes:   m.probes[instance],
			Failures: m.failures[instance],
			Alive:    m.alive[instance],
		}

		durations := m.latencies[instance]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			im.AvgLatency = average(sorted)
			im.P50Latency = percentile(sorted, 0.50)
			im.P95Latency = percentile(sorted, 0.95)
			im.P99Latency = percentile(sorted, 0.99)
		}

		snap.Instances[instance] = im
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		probes:    make(map[string]int64),
		failures:  make(map[string]int64),
		latencies: make(map[string][]time.Duration),
		alive:     make(map[string]bool),
		startTime: time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
