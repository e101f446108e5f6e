package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core)).With(observability.F("component", "test"))

	l.Warn("transaction_limit_bypassed",
		observability.F("amount", int64(2000)),
		observability.F("error", errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "transaction_limit_bypassed", entries[0].Message)
	assert.Equal(t, "test", ctx["component"])
	assert.Equal(t, int64(2000), ctx["amount"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestWrap_Nil(t *testing.T) {
	assert.NotPanics(t, func() { Wrap(nil).Info("ignored") })
}
