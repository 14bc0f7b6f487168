package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest("/api/stations", "GET", "200", 20*time.Millisecond)
	c.ObserveRequest("/api/stations", "GET", "200", 10*time.Millisecond)
	c.ReportGenerated(3)
	c.ReportFailed()
	c.PhotoUploaded(true)
	c.PhotoUploaded(false)
	c.PhotoUploaded(false)
	c.MaintenanceDeleted()
	c.StatusChanged("draft", "completed")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/stations", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reportsGenerated.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reportsGenerated.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.photoUploads.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.maintenancesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.statusTransitions.WithLabelValues("draft", "completed")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.MaintenanceDeleted()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rr_maintenances_deleted_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
