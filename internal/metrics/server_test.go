package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterHealthz(t *testing.T) {
	srv := httptest.NewServer(Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterExposesRecordedMetrics(t *testing.T) {
	RecordRequest(http.MethodGet, "/messages/api/users", 200, 20*time.Millisecond)
	RecordSend(OutcomeFailed)
	RecordEvent("new_message")
	RecordDrop("rt.user_typing")

	srv := httptest.NewServer(Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `mchat_http_requests_total{method="GET",path="/messages/api/users",status="200"}`))
	assert.True(t, strings.Contains(text, `mchat_messages_sent_total{outcome="failed"}`))
	assert.True(t, strings.Contains(text, `mchat_realtime_events_total{event="new_message"}`))
	assert.True(t, strings.Contains(text, `mchat_bus_events_dropped_total{kind="rt.user_typing"}`))
}
