// Package promhooks exposes listcache hook events as Prometheus metrics.
//
//	hooks := promhooks.New(prometheus.DefaultRegisterer, "myapp")
//	cache, _ := listcache.New[User](listcache.Options[User]{
//	    Namespace: "user",
//	    Store:     store,
//	    Codec:     codec.JSON[User]{},
//	    Hooks:     hooks,
//	})
package promhooks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/listcache"
)

type Hooks struct {
	corrupt   *prometheus.CounterVec
	selfHeal  prometheus.Counter
	touchFail prometheus.Counter
	lockWait  prometheus.Histogram
	skipped   *prometheus.CounterVec
}

var _ listcache.Hooks = (*Hooks)(nil)

// New registers the listcache metrics with reg under the given namespace
// prefix. Pass prometheus.DefaultRegisterer unless you shard registries.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		corrupt: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listcache_corrupt_entries_total",
			Help:      "Total number of entries that failed envelope or codec decoding.",
		}, []string{"reason"}),
		selfHeal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listcache_self_healed_entries_total",
			Help:      "Total number of corrupt entries deleted on read.",
		}),
		touchFail: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listcache_touch_failures_total",
			Help:      "Total number of failed sliding-window refreshes.",
		}),
		lockWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listcache_lock_wait_seconds",
			Help:      "Time spent waiting for the per-key mutation lock.",
			Buckets:   prometheus.DefBuckets,
		}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listcache_mutations_skipped_total",
			Help:      "Total number of list mutations that ended without a write.",
		}, []string{"op", "reason"}),
	}
}

func (h *Hooks) CorruptEntry(_, reason string) { h.corrupt.WithLabelValues(reason).Inc() }
func (h *Hooks) SelfHealed(string)             { h.selfHeal.Inc() }
func (h *Hooks) TouchFailed(string, error)     { h.touchFail.Inc() }

func (h *Hooks) LockWait(_ string, waited time.Duration) {
	h.lockWait.Observe(waited.Seconds())
}

func (h *Hooks) MutateSkipped(_, op, reason string) {
	h.skipped.WithLabelValues(op, reason).Inc()
}
