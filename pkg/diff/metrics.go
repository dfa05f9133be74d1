package diff

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	gdmetrics "github.com/fluxcd/graphdiff/pkg/metrics"
)

type Metrics struct {
	CompareDuration metrics.Histogram
	Deltas          metrics.Counter
}

var defaultMetrics = Metrics{
	CompareDuration: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: "graphdiff",
		Name:      "compare_duration_seconds",
		Help:      "Duration of graph comparisons, in seconds.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{gdmetrics.LabelSuccess}),
	Deltas: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "graphdiff",
		Name:      "deltas_total",
		Help:      "Number of differences found, by change type.",
	}, []string{gdmetrics.LabelChangeType}),
}

// DefaultMetrics returns the metrics registered with the default
// prometheus registry.
func DefaultMetrics() Metrics {
	return defaultMetrics
}

type instrumentedComparer struct {
	next Comparer
	m    Metrics
}

// InstrumentedComparer records the duration of every comparison and
// the number of deltas of each type it finds.
func InstrumentedComparer(next Comparer, m Metrics) Comparer {
	return &instrumentedComparer{next, m}
}

func (i *instrumentedComparer) Compare(from, to interface{}) (res *Result, err error) {
	defer func(begin time.Time) {
		i.m.CompareDuration.With(
			gdmetrics.LabelSuccess, fmt.Sprint(err == nil),
		).Observe(time.Since(begin).Seconds())
		if res == nil {
			return
		}
		for changeType, n := range res.Count() {
			i.m.Deltas.With(
				gdmetrics.LabelChangeType, changeType.String(),
			).Add(float64(n))
		}
	}(time.Now())
	return i.next.Compare(from, to)
}

func typeName(v interface{}) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
