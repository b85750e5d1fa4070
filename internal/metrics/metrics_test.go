package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	require := require.New(t)
	m := NewMetrics("adpulse_test", prometheus.NewRegistry())

	m.RecordAIRequest("chat", true, time.Second)
	m.RecordAIRequest("chat", false, time.Second)
	m.RecordAIRequest("chat", false, time.Second)
	require.Equal(1.0, testutil.ToFloat64(m.AIRequests.WithLabelValues("chat", "ok")))
	require.Equal(2.0, testutil.ToFloat64(m.AIRequests.WithLabelValues("chat", "fallback")))

	m.RecordCampaignsServed("Meta", 4)
	m.RecordCampaignsServed("Meta", 3)
	require.Equal(7.0, testutil.ToFloat64(m.CampaignsServed.WithLabelValues("Meta")))

	m.RecordSourceRead("memory", nil, time.Millisecond)
	m.RecordSourceRead("memory", errors.New("down"), time.Millisecond)
	require.Equal(1.0, testutil.ToFloat64(m.SourceErrors.WithLabelValues("memory")))

	m.SetActiveSessions(3)
	require.Equal(3.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestHandlerFor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("adpulse_test", reg)
	m.RecordCSVExport()

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "adpulse_test_csv_exports_total 1"))
}
