package metrics

import "github.com/prometheus/client_golang/prometheus"

// MemoMetrics counts memoized callback lookups. It implements
// dashpages.MemoObserver.
type MemoMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
}

func NewMemoMetrics(reg prometheus.Registerer, store string) *MemoMetrics {
	labels := prometheus.Labels{"store": store}
	m := &MemoMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "memo",
			Name:        "hits_total",
			Help:        "Total number of callback results served from the memo.",
			ConstLabels: labels,
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "memo",
			Name:        "misses_total",
			Help:        "Total number of callback results computed on a memo miss.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(m.Hits, m.Misses)
	return m
}

func (m *MemoMetrics) MemoHit()  { m.Hits.Inc() }
func (m *MemoMetrics) MemoMiss() { m.Misses.Inc() }

// SiteMetrics holds the counters of the server rendered pages.
type SiteMetrics struct {
	Page2Loads prometheus.Counter
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		Page2Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "page2_loads_total",
			Help: "Number of times page2 is loaded",
		}),
	}
	reg.MustRegister(m.Page2Loads)
	return m
}
