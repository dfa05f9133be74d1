package diff

import (
	"bytes"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	comparer := LoggingMiddleware(log.NewLogfmtLogger(&buf))(New(Config{}))

	_, err := comparer.Compare(&leaf{V: 1}, &leaf{V: 2})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "method=Compare")
	assert.Contains(t, buf.String(), "from=*diff.leaf")
	assert.Contains(t, buf.String(), "deltas=1")
	assert.Contains(t, buf.String(), "err=null")

	buf.Reset()
	_, err = comparer.Compare(nil, nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "from=<nil>")
	assert.Contains(t, buf.String(), "deltas=0")
}

// countingCounter keeps a total per change type.
type countingCounter struct {
	label  string
	totals map[string]float64
}

func (c *countingCounter) With(labelValues ...string) metrics.Counter {
	return &countingCounter{label: labelValues[len(labelValues)-1], totals: c.totals}
}

func (c *countingCounter) Add(delta float64) {
	c.totals[c.label] += delta
}

func TestInstrumentedComparer(t *testing.T) {
	counter := &countingCounter{totals: map[string]float64{}}
	histogram := generic.NewHistogram("compare", 10)
	comparer := InstrumentedComparer(New(Config{}), Metrics{
		CompareDuration: histogram,
		Deltas:          counter,
	})

	_, err := comparer.Compare(
		&diamond{Left: &leaf{V: 1}},
		&diamond{Left: &leaf{V: 2}, Right: &leaf{V: 3}})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"update": 1, "insert": 1}, counter.totals)

	_, err = comparer.Compare(nil, nil)
	require.Error(t, err)
	assert.Equal(t, map[string]float64{"update": 1, "insert": 1}, counter.totals)
}
