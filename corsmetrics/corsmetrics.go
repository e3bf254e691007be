// Package corsmetrics exports the outcomes of CORS evaluations as
// Prometheus metrics.
package corsmetrics

import (
	"errors"

	"github.com/jub0bs/corspolicy"
	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeAllowed is the value of the outcome label for allowed requests.
// For rejected requests, the outcome label holds the rejection reason
// (see [corspolicy.RequestError.Reason]).
const OutcomeAllowed = "allowed"

// A Collector counts CORS evaluations by request kind and outcome.
// It implements [corspolicy.Observer].
type Collector struct {
	evaluations *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg,
// under the specified namespace:
//
//	<namespace>_cors_evaluations_total{kind, outcome}
//
// It returns an error if registration fails, e.g. because another collector
// with the same namespace is already registered with reg.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	evaluations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cors",
			Name:      "evaluations_total",
			Help:      "Total number of requests evaluated against a CORS policy",
		},
		[]string{"kind", "outcome"},
	)
	if err := reg.Register(evaluations); err != nil {
		return nil, err
	}
	return &Collector{evaluations: evaluations}, nil
}

// ObserveEvaluation implements [corspolicy.Observer].
func (c *Collector) ObserveEvaluation(kind corspolicy.Kind, err error) {
	c.evaluations.WithLabelValues(kind.String(), outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return OutcomeAllowed
	}
	var rerr *corspolicy.RequestError
	if errors.As(err, &rerr) {
		return rerr.Reason()
	}
	return "unknown"
}
