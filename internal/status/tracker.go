// internal/status/tracker.go
package status

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/modbus-gateway/internal/poller"
)

const namespace = "modbus_gateway"

type groupState struct {
	snap  Snapshot
	since time.Time
}

// Tracker keeps the latest snapshot per group and exports it as metrics.
// Write is called by the poller loop; Snapshot and the metrics handler
// may be called from other goroutines.
type Tracker struct {
	mu     sync.Mutex
	groups map[string]*groupState
	clock  func() time.Time

	registry *prometheus.Registry

	reads    *prometheus.CounterVec
	failures *prometheus.CounterVec
	values   *prometheus.CounterVec

	health   *prometheus.GaugeVec
	lastPoll *prometheus.GaugeVec
	inError  *prometheus.GaugeVec
}

// NewTracker creates a tracker with its own registry. clock may be nil.
func NewTracker(clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}

	t := &Tracker{
		groups:   make(map[string]*groupState),
		clock:    clock,
		registry: prometheus.NewRegistry(),

		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Sequence reads attempted.",
		}, []string{"group"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Sequence reads that failed.",
		}, []string{"group"}),
		values: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_total",
			Help:      "Tag values decoded.",
		}, []string{"group"}),

		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_health",
			Help:      "Health code of the last cycle (0 unknown, 1 ok, 2 error, 3 degraded).",
		}, []string{"group"}),
		lastPoll: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_poll_timestamp_seconds",
			Help:      "Due timestamp of the last cycle.",
		}, []string{"group"}),
		inError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seconds_in_error",
			Help:      "Seconds since the group left the ok state.",
		}, []string{"group"}),
	}

	t.registry.MustRegister(t.reads, t.failures, t.values, t.health, t.lastPoll, t.inError)
	return t
}

// Write implements poller.Sink.
func (t *Tracker) Write(res poller.PollResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.groups[res.Group]
	if st == nil {
		st = &groupState{}
		t.groups[res.Group] = st
	}
	st.snap, st.since = Derive(res, st.since, t.clock())

	s := st.snap
	t.reads.WithLabelValues(s.Group).Add(float64(s.Reads))
	t.failures.WithLabelValues(s.Group).Add(float64(s.Failed))
	t.values.WithLabelValues(s.Group).Add(float64(s.Values))
	t.health.WithLabelValues(s.Group).Set(float64(s.Health))
	t.lastPoll.WithLabelValues(s.Group).Set(float64(s.At.Unix()))
	t.inError.WithLabelValues(s.Group).Set(float64(s.SecondsInError))
	return nil
}

// Snapshot returns the latest snapshot of group. Unknown groups report
// HealthUnknown.
func (t *Tracker) Snapshot(group string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st, ok := t.groups[group]; ok {
		return st.snap
	}
	return Snapshot{Group: group, Health: HealthUnknown}
}

// Registry exposes the tracker's collectors.
func (t *Tracker) Registry() *prometheus.Registry { return t.registry }

// Handler serves the tracker's metrics.
func (t *Tracker) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
