package monitor_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/furnet-labs/furnet/internal/monitor"
	"github.com/furnet-labs/furnet/internal/probe"
)

func TestMonitor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Monitor Suite")
}

// fakeProber records calls and reports every URL alive. A non-nil gate
// blocks each cycle until the gate is closed.
type fakeProber struct {
	mutex sync.Mutex
	calls [][]string
	gate  chan struct{}
}

func (f *fakeProber) ProbeAll(ctx context.Context, urls []string) []probe.HealthStatus {
	f.mutex.Lock()
	call := make([]string, len(urls))
	copy(call, urls)
	f.calls = append(f.calls, call)
	gate := f.gate
	f.mutex.Unlock()

	if gate != nil {
		<-gate
	}

	statuses := make([]probe.HealthStatus, len(urls))
	for i, u := range urls {
		ms := int64(1)
		statuses[i] = probe.HealthStatus{InstanceURL: u, IsAlive: true, ResponseTimeMs: &ms}
	}
	return statuses
}

func (f *fakeProber) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.calls)
}

var _ = Describe("Session", func() {
	var (
		log     *slog.Logger
		prober  *fakeProber
		mock    *clock.Mock
		session *monitor.Session
		ctx     context.Context
		cancel  context.CancelFunc
	)

	const interval = 5 * time.Second

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
		prober = &fakeProber{}
		mock = clock.NewMock()
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		if session != nil {
			session.Stop()
		}
		cancel()
	})

	Describe("Start", func() {
		It("should probe immediately on start", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)

			Eventually(func() int { return prober.callCount() }).Should(Equal(1))
			Eventually(func() bool {
				status, ok := session.Snapshot().Statuses["http://a"]
				return ok && status.IsAlive
			}).Should(BeTrue())
		})

		It("should re-probe every interval", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)
			Eventually(func() int { return prober.callCount() }).Should(Equal(1))

			mock.Add(interval)
			Eventually(func() int { return prober.callCount() }).Should(Equal(2))

			mock.Add(interval)
			Eventually(func() int { return prober.callCount() }).Should(Equal(3))
		})

		It("should skip cycles while the monitored set is empty but keep ticking", func() {
			session = monitor.NewSession(log, prober, interval, nil, mock)
			session.Start(ctx)

			mock.Add(interval)
			Consistently(func() int { return prober.callCount() }).Should(Equal(0))

			session.AddURL("http://a")
			mock.Add(interval)
			Eventually(func() int { return prober.callCount() }).Should(Equal(1))
		})

		It("should be a no-op when already started", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)
			session.Start(ctx)

			Eventually(func() int { return prober.callCount() }).Should(Equal(1))
			Consistently(func() int { return prober.callCount() }).Should(Equal(1))
		})
	})

	Describe("AddURL", func() {
		It("should not trigger an immediate probe", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)
			Eventually(func() int { return prober.callCount() }).Should(Equal(1))

			session.AddURL("http://b")
			Consistently(func() int { return prober.callCount() }).Should(Equal(1))

			mock.Add(interval)
			Eventually(func() int { return prober.callCount() }).Should(Equal(2))
			Eventually(func() map[string]probe.HealthStatus {
				return session.Snapshot().Statuses
			}).Should(HaveKey("http://b"))
		})

		It("should dedupe by plain string equality", func() {
			session = monitor.NewSession(log, prober, interval, nil, mock)
			session.AddURL("http://a")
			session.AddURL("http://a")
			session.AddURL("http://a/")

			snap := session.Snapshot()
			Expect(snap.Instances).To(Equal([]string{"http://a", "http://a/"}))
		})
	})

	Describe("RemoveURL", func() {
		It("should delete the status entry immediately", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a", "http://b"}, mock)
			session.Start(ctx)
			Eventually(func() map[string]probe.HealthStatus {
				return session.Snapshot().Statuses
			}).Should(HaveKey("http://b"))

			session.RemoveURL("http://b")

			snap := session.Snapshot()
			Expect(snap.Instances).To(Equal([]string{"http://a"}))
			Expect(snap.Statuses).NotTo(HaveKey("http://b"))
		})

		It("should not resurrect a URL removed mid-cycle", func() {
			prober.gate = make(chan struct{})
			session = monitor.NewSession(log, prober, interval, []string{"http://a", "http://b"}, mock)
			session.Start(ctx)

			Eventually(func() int { return prober.callCount() }).Should(Equal(1))
			session.RemoveURL("http://b")
			close(prober.gate)

			Eventually(func() map[string]probe.HealthStatus {
				return session.Snapshot().Statuses
			}).Should(HaveKey("http://a"))
			Consistently(func() map[string]probe.HealthStatus {
				return session.Snapshot().Statuses
			}).ShouldNot(HaveKey("http://b"))
		})
	})

	Describe("Stop", func() {
		It("should stop scheduling new cycles", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)
			Eventually(func() int { return prober.callCount() }).Should(Equal(1))

			session.Stop()
			mock.Add(3 * interval)
			Consistently(func() int { return prober.callCount() }).Should(Equal(1))
			Expect(session.State()).To(Equal(monitor.StateStopped))
		})

		It("should discard results of a cycle finishing after stop", func() {
			prober.gate = make(chan struct{})
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)

			Eventually(func() int { return prober.callCount() }).Should(Equal(1))
			session.Stop()
			close(prober.gate)

			Consistently(func() map[string]probe.HealthStatus {
				return session.Snapshot().Statuses
			}).Should(BeEmpty())
		})

		It("should be safe to call multiple times", func() {
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)
			session.Stop()
			session.Stop()
			Expect(session.State()).To(Equal(monitor.StateStopped))
		})
	})

	Describe("overlap protection", func() {
		It("should never run two cycles at once", func() {
			prober.gate = make(chan struct{})
			session = monitor.NewSession(log, prober, interval, []string{"http://a"}, mock)
			session.Start(ctx)

			Eventually(func() int { return prober.callCount() }).Should(Equal(1))

			// Ticks fired while the first cycle is blocked must not start
			// concurrent cycles.
			mock.Add(interval)
			mock.Add(interval)
			Consistently(func() int { return prober.callCount() }).Should(Equal(1))

			close(prober.gate)
			Eventually(func() int { return prober.callCount() }).Should(BeNumerically(">=", 2))
		})
	})
})
