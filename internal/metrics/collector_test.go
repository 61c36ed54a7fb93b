package metrics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/furnet-labs/furnet/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		collector = metrics.NewCollector(64, log)
		ctx, cancel = context.WithCancel(context.Background())
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("should fold emitted events into the snapshot", func() {
		collector.Emit(metrics.ProbeEvent{
			Instance:  "http://a",
			Timestamp: time.Now(),
			Alive:     true,
			Latency:   12 * time.Millisecond,
		})

		Eventually(func() int64 {
			return collector.Snapshot().TotalProbes
		}).Should(Equal(int64(1)))
	})

	It("should not block emitters when the buffer is full", func() {
		small := metrics.NewCollector(1, slog.Default())
		// Never started: the channel fills after one event, the rest drop.
		for i := 0; i < 100; i++ {
			small.Emit(metrics.ProbeEvent{Instance: "http://a", Alive: true})
		}
		Expect(small.Snapshot().TotalProbes).To(BeZero())
	})
})
