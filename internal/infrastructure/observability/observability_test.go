package observability

import (
	"testing"

	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToNop(t *testing.T) {
	o := New(nil, nil, nil)

	require.NotNil(t, o.Tracer())
	require.NotNil(t, o.Logger())
	require.NotNil(t, o.Metrics())
	assert.NotPanics(t, func() {
		o.Metrics().Counter(observability.MOrderEvents).Add(1, observability.L("event", "order.paid"))
		o.Logger().Info("hello")
	})
}

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(prometrics.New(reg, "", ""))

	m.Counter(observability.MOrderEvents).Add(1, observability.L("event", "order.paid"))
	m.Counter("not_registered_total").Add(1)

	n, err := testutil.GatherAndCount(reg, string(observability.MOrderEvents))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, observability.NopMetrics(), NewMetrics(nil))
}
