package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gunzone/internal/sim"
)

func TestObserveTick(t *testing.T) {
	m := New()
	events := []sim.GameEvent{
		{Tick: 1, Data: sim.DodgeStart{}},
		{Tick: 1, Data: sim.DodgeStart{}},
		{Tick: 1, Data: sim.PlayerDeath{}},
	}

	m.ObserveTick(events, time.Millisecond)
	m.ObserveTick(nil, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues(string(sim.EventDodgeStart))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues(string(sim.EventPlayerDeath))))
}

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun("extraction", "extracted")
	m.ObserveRun("extraction", "extracted")
	m.ObserveRun("arena", "died")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("extraction", "extracted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("arena", "died")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	m.Sessions.Inc()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "gunzone_sessions_active 1"))
	assert.True(t, strings.Contains(body, `gunzone_http_request_errors_total{method="GET",path="/boom",status="500"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
