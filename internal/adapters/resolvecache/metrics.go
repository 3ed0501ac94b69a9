package resolvecache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/zerr"
)

const namespace = "rcache"

// Metrics counts resolve cache activity. A nil *Metrics records nothing.
type Metrics struct {
	Hits          prometheus.Counter
	Misses        prometheus.Counter
	Puts          prometheus.Counter
	StalePuts     prometheus.Counter
	Invalidations prometheus.Counter
	Collected     prometheus.Counter
}

// NewMetrics registers the cache counters for scopeID on reg. Counters that are
// already registered are reused.
func NewMetrics(reg prometheus.Registerer, scopeID string) (*Metrics, error) {
	labels := prometheus.Labels{"scope": scopeID}
	counter := func(name, help string) (prometheus.Counter, error) {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "resolve_cache",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
					return existing, nil
				}
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to register metric"), "metric", name)
		}
		return c, nil
	}

	var (
		m   Metrics
		err error
	)
	for _, def := range []struct {
		dst        *prometheus.Counter
		name, help string
	}{
		{&m.Hits, "hits_total", "Lookups that found a result."},
		{&m.Misses, "misses_total", "Lookups that found nothing."},
		{&m.Puts, "puts_total", "Results stored."},
		{&m.StalePuts, "stale_puts_total", "Results dropped because the cache was cleared while they were computed."},
		{&m.Invalidations, "invalidations_total", "Times the cache was cleared."},
		{&m.Collected, "collected_total", "Entries dropped because their node was reclaimed."},
	} {
		if *def.dst, err = counter(def.name, def.help); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) put() {
	if m != nil {
		m.Puts.Inc()
	}
}

func (m *Metrics) stalePut() {
	if m != nil {
		m.StalePuts.Inc()
	}
}

func (m *Metrics) invalidate() {
	if m != nil {
		m.Invalidations.Inc()
	}
}

func (m *Metrics) collect() {
	if m != nil {
		m.Collected.Inc()
	}
}
