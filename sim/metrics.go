// Tracks run-wide dispatch metrics: per-provider decisions, oracle failures,
// SLA compliance, cost and execution time.

package sim

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics aggregates dispatch statistics for the end-of-run report and
// exports them as Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	decisions        *prometheus.CounterVec
	oracleFailures   *prometheus.CounterVec
	outOfRange       prometheus.Counter
	slaMet           prometheus.Counter
	logWriteFailures prometheus.Counter
	execTime         prometheus.Histogram

	mu               sync.Mutex
	CompletedTasks   int         // tasks with an emitted outcome
	SLAMetTasks      int         // tasks whose execution time met the deadline
	TotalCost        float64     // sum of per-task cost
	TotalExecTime    float64     // sum of per-task execution time
	Fallbacks        int         // decisions substituted with provider 0
	ProviderCounts   map[int]int // provider index → tasks dispatched
	LogWriteFailures int
}

// NewMetrics creates a Metrics with all collectors registered.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_decisions_total",
			Help: "Tasks dispatched, by provider index.",
		}, []string{"provider"}),
		oracleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_oracle_failures_total",
			Help: "Remote oracle decisions that fell back to provider 0, by failure kind.",
		}, []string{"kind"}),
		outOfRange: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_out_of_range_total",
			Help: "Decisions whose provider index was outside the registry.",
		}),
		slaMet: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_sla_met_total",
			Help: "Tasks whose execution time met their SLA deadline.",
		}),
		logWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_log_write_failures_total",
			Help: "Outcome rows that could not be written to the log sink.",
		}),
		execTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_execution_time_seconds",
			Help:    "Simulated execution time per task.",
			Buckets: []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3},
		}),
		ProviderCounts: make(map[int]int),
	}
	m.Registry.MustRegister(m.decisions, m.oracleFailures, m.outOfRange, m.slaMet, m.logWriteFailures, m.execTime)
	return m
}

// recordDecision counts a decision and any fallback that produced it.
func (m *Metrics) recordDecision(provider int, failure string, outOfRange bool) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(strconv.Itoa(provider)).Inc()
	if failure != "" {
		m.oracleFailures.WithLabelValues(failure).Inc()
	}
	if outOfRange {
		m.outOfRange.Inc()
	}
	m.mu.Lock()
	m.ProviderCounts[provider]++
	if failure != "" || outOfRange {
		m.Fallbacks++
	}
	m.mu.Unlock()
}

// recordOutcome accumulates the realized cost, time and SLA result of a task.
func (m *Metrics) recordOutcome(execTime, cost float64, slaMet bool) {
	if m == nil {
		return
	}
	m.execTime.Observe(execTime)
	if slaMet {
		m.slaMet.Inc()
	}
	m.mu.Lock()
	m.CompletedTasks++
	m.TotalCost += cost
	m.TotalExecTime += execTime
	if slaMet {
		m.SLAMetTasks++
	}
	m.mu.Unlock()
}

func (m *Metrics) recordLogWriteFailure() {
	if m == nil {
		return
	}
	m.logWriteFailures.Inc()
	m.mu.Lock()
	m.LogWriteFailures++
	m.mu.Unlock()
}

// Print writes the aggregated metrics at the end of a run.
func (m *Metrics) Print(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, _ = fmt.Fprintln(w, "=== Dispatch Metrics ===")
	_, _ = fmt.Fprintf(w, "Completed Tasks      : %d\n", m.CompletedTasks)
	if m.CompletedTasks > 0 {
		n := float64(m.CompletedTasks)
		_, _ = fmt.Fprintf(w, "SLA Compliance       : %.2f%%\n", float64(m.SLAMetTasks)/n*100)
		_, _ = fmt.Fprintf(w, "Average CPU Cost     : %.4f\n", m.TotalCost/n)
		_, _ = fmt.Fprintf(w, "Average Exec Time    : %.4f\n", m.TotalExecTime/n)
	}
	_, _ = fmt.Fprintf(w, "Fallback Decisions   : %d\n", m.Fallbacks)
	if m.LogWriteFailures > 0 {
		_, _ = fmt.Fprintf(w, "Log Write Failures   : %d\n", m.LogWriteFailures)
	}
	indices := make([]int, 0, len(m.ProviderCounts))
	for idx := range m.ProviderCounts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		_, _ = fmt.Fprintf(w, "Provider %-2d Tasks    : %d\n", idx, m.ProviderCounts[idx])
	}
}

// Serve exposes the registry on addr at /metrics in the background.
// The returned server can be shut down by the caller.
func (m *Metrics) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics endpoint on %s stopped: %v", addr, err)
		}
	}()
	logrus.Infof("Metrics exposed on %s/metrics", addr)
	return srv
}
