package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, endpoint http.HandlerFunc) (int, probeResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp probeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w.Code, resp
}

func TestHealth_ReadyGate(t *testing.T) {
	h := New()

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "_readiness")

	h.SetReady(true)
	code, resp = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestHealth_FailureThreshold(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	checks := h.snapshot(readiness)
	require.Len(t, checks, 1)
	c := checks[0]

	// Two failures stay healthy, the third flips.
	c.poll(context.Background())
	c.poll(context.Background())
	assert.True(t, h.IsReady())
	c.poll(context.Background())
	assert.False(t, h.IsReady())

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", resp.Checks["db"])
}

func TestHealth_RecoveryAfterSuccess(t *testing.T) {
	h := New()
	h.SetReady(true)

	fail := true
	h.AddReadinessCheck("dep", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})
	c := h.snapshot(readiness)[0]

	for range 3 {
		c.poll(context.Background())
	}
	require.False(t, h.IsReady())

	fail = false
	c.poll(context.Background())
	assert.True(t, h.IsReady())
}

func TestHealth_LivenessIndependentOfReadiness(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(1_000_000))

	// Liveness passes even though the service is not marked ready.
	code, resp := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestHealth_StartAndStop(t *testing.T) {
	h := New()
	h.SetReady(true)

	polled := make(chan struct{}, 1)
	h.AddReadinessCheck("dep", time.Second, func(context.Context) error {
		select {
		case polled <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("check never polled")
	}
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
