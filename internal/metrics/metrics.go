// Package metrics exposes Prometheus counters for store mutations and
// persistence failures.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fintrack"

// Recorder holds the application metrics. A nil *Recorder is valid and
// records nothing, so components can be built without metrics in tests.
type Recorder struct {
	registry *prometheus.Registry

	added          *prometheus.CounterVec
	deleted        prometheus.Counter
	saveFailures   prometheus.Counter
	loadRecoveries *prometheus.CounterVec
	stored         prometheus.Gauge
	cacheLookups   *prometheus.CounterVec
}

// New registers every metric on a fresh registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.NewRegistry())
}

func NewWithRegistry(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		added: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_added_total",
			Help:      "Transactions recorded, by type.",
		}, []string{"type"}),
		deleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_deleted_total",
			Help:      "Transactions removed.",
		}),
		saveFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "save_failures_total",
			Help:      "Failed writes of the transaction collection.",
		}),
		loadRecoveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "load_recoveries_total",
			Help:      "Loads that fell back to an empty collection, by reason.",
		}, []string{"reason"}),
		stored: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions_stored",
			Help:      "Transactions currently held by the store.",
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Dashboard cache lookups, by result.",
		}, []string{"result"}),
	}
}

// Registry returns the registry backing r, for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) TransactionAdded(kind string) {
	if r == nil {
		return
	}
	r.added.WithLabelValues(kind).Inc()
}

func (r *Recorder) TransactionDeleted() {
	if r == nil {
		return
	}
	r.deleted.Inc()
}

func (r *Recorder) SaveFailed() {
	if r == nil {
		return
	}
	r.saveFailures.Inc()
}

// LoadRecovered counts a load that discarded stored data. reason is
// "corrupt" or "read_error".
func (r *Recorder) LoadRecovered(reason string) {
	if r == nil {
		return
	}
	r.loadRecoveries.WithLabelValues(reason).Inc()
}

func (r *Recorder) SetStored(n int) {
	if r == nil {
		return
	}
	r.stored.Set(float64(n))
}

func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("hit").Inc()
}

func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}
