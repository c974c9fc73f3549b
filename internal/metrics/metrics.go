package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"unitconv/internal/engine"
)

// Recorder counts conversions by domain and outcome.
type Recorder struct {
	conversions *prometheus.CounterVec
	batchSize   prometheus.Histogram
}

func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unitconv",
			Name:      "conversions_total",
			Help:      "Conversions performed, by measurement domain and outcome.",
		}, []string{"domain", "outcome"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "unitconv",
			Name:      "batch_size",
			Help:      "Number of requests per batch conversion.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	if err := reg.Register(r.conversions); err != nil {
		existing, err := reuse(err)
		if err != nil {
			return nil, err
		}
		r.conversions = existing.(*prometheus.CounterVec)
	}
	if err := reg.Register(r.batchSize); err != nil {
		existing, err := reuse(err)
		if err != nil {
			return nil, err
		}
		r.batchSize = existing.(prometheus.Histogram)
	}
	return r, nil
}

// reuse returns the collector already registered under the same descriptor.
func reuse(err error) (prometheus.Collector, error) {
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, nil
	}
	return nil, err
}

// Observe records one conversion. Unknown domains are folded into a single
// label value to keep cardinality bounded.
func (r *Recorder) Observe(domain engine.Domain, err error) {
	label := string(domain)
	if _, perr := engine.ParseDomain(label); perr != nil {
		label = "unknown"
	}
	outcome := "ok"
	if err != nil {
		outcome = engine.Kind(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	r.conversions.WithLabelValues(label, outcome).Inc()
}

func (r *Recorder) ObserveBatch(results []engine.Result) {
	r.batchSize.Observe(float64(len(results)))
	for _, res := range results {
		r.Observe(res.Request.Domain, res.Err)
	}
}
