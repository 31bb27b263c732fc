package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEnrollment(t *testing.T) {
	before := testutil.ToFloat64(enrollments.WithLabelValues(EnrollmentFull))
	RecordEnrollment(EnrollmentFull)
	RecordEnrollment(EnrollmentFull)
	assert.Equal(t, before+2, testutil.ToFloat64(enrollments.WithLabelValues(EnrollmentFull)))
}

func TestRequestStarted_Balances(t *testing.T) {
	before := testutil.ToFloat64(httpInFlight)
	done := RequestStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, before, testutil.ToFloat64(httpInFlight))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ObserveRequest("GET", "/api/v1/sections/:id", "200", 10*time.Millisecond)
	RecordEnrollment(EnrollmentSucceeded)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sectionhub_http_requests_total{method="GET",path="/api/v1/sections/:id",status="200"}`)
	assert.Contains(t, string(body), `sectionhub_enrollments_total{result="success"}`)
}
