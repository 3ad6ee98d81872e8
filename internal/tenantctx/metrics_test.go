package tenantctx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// NewMetrics registers collectors globally, so it is built once for the package.
var testMetrics = NewMetrics()

func TestSessionMetrics(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoles()
	ok := newPrincipal("ok@fc.fr")
	roles.set(ok.ID, superAdminScope())
	sessions := NewSessions(NewMemoryKV(), roles, WithSessionMetrics(testMetrics))

	sessions.Observe(ctx, "a", ok, "t").Wait()
	sessions.Observe(ctx, "b", newPrincipal("missing@fc.fr"), "t").Wait()

	assert.InDelta(t, 2, testutil.ToFloat64(testMetrics.ActiveSessions), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.Lookups.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.Lookups.WithLabelValues("failure")), 0)

	assert.NoError(t, sessions.SignOut(ctx, ok.ID, "a"))
	assert.InDelta(t, 1, testutil.ToFloat64(testMetrics.ActiveSessions), 0)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeLookup(time.Time{}, errors.New("x"))
		m.incrementStale()
		m.setSessions(3)
	})
}
