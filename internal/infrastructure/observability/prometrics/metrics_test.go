package prometrics

import (
	"testing"

	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CounterIsRegisteredOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg, "", "")

	c1 := r.Counter("orders_total", "Orders.", "event")
	c2 := r.Counter("orders_total", "Orders.", "event")

	c1.Add(1, observability.L("event", "order.paid"))
	c2.Bind(observability.L("event", "order.paid")).Add(2)

	n, err := testutil.GatherAndCount(reg, "orders_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	vec := r.(*registry)
	v, ok := vec.counters.Load("orders_total")
	require.True(t, ok)
	assert.InDelta(t, 3, testutil.ToFloat64(v.(*prometheus.CounterVec).WithLabelValues("order.paid")), 1e-9)
}

func TestRegisterAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := RegisterAll(New(reg, "", ""))

	assert.Len(t, counters, len(observability.CounterSpecs))
	assert.Len(t, histograms, len(observability.HistogramSpecs))

	counters[observability.MUsecaseRequests].Add(1,
		observability.L("use_case", "payment.process"),
		observability.L("outcome", "success"),
	)
	histograms[observability.MUsecaseDuration].Observe(0.2, observability.L("use_case", "payment.process"))

	n, err := testutil.GatherAndCount(reg, string(observability.MUsecaseRequests), string(observability.MUsecaseDuration))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
