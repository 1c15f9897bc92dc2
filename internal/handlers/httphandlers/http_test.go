package httphandlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gitlab.com/TitanInd/netcore/internal/lib"
	"gitlab.com/TitanInd/netcore/internal/mining"
	"gitlab.com/TitanInd/netcore/internal/network"
	"gitlab.com/TitanInd/netcore/internal/telemetry"
)

type reporterStub struct {
	summary  telemetry.Summary
	messages []telemetry.Message
}

func (r *reporterStub) Summary() telemetry.Summary {
	return r.summary
}

func (r *reporterStub) Messages() []telemetry.Message {
	return r.messages
}

type configStub struct{}

func (configStub) GetSanitized() interface{} {
	return map[string]string{"pool": "mock://user@pool:3333"}
}

func mockResult(diff uint64) mining.SubmitResult {
	return mining.SubmitResult{Diff: diff, Elapsed: 20 * time.Millisecond}
}

func newTestRouter(reporter Reporter) *gin.Engine {
	return NewHTTPHandler(reporter, configStub{}, lib.NewTestLogger())
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := get(t, newTestRouter(&reporterStub{}), "/healthcheck")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "healthy")
}

func TestGetSummary(t *testing.T) {
	var state network.State
	state.SetPool("pool", 3333, "127.0.0.1", time.Now().Add(-time.Minute))
	state.Diff = 1000
	state.Add(mockResult(500), nil)
	state.Add(mockResult(700), nil)
	state.Add(mockResult(100), errors.New("low difficulty share"))

	reporter := &reporterStub{summary: telemetry.Summary{State: state, Connected: true}}
	w := get(t, newTestRouter(reporter), "/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var res SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	require.Equal(t, "pool:3333", res.Connection.Pool)
	require.True(t, res.Connection.Connected)
	require.GreaterOrEqual(t, res.Connection.Uptime, int64(59))
	require.Equal(t, uint64(1000), res.Results.DiffCurrent)
	require.Equal(t, uint64(2), res.Results.SharesGood)
	require.Equal(t, uint64(3), res.Results.SharesTotal)
	require.Equal(t, uint64(1200), res.Results.HashesTotal)
	require.Equal(t, []uint64{700, 500}, res.Results.Best)
}

func TestGetSummaryDisconnected(t *testing.T) {
	reporter := &reporterStub{summary: telemetry.Summary{DisconnectReason: network.ReasonNoActivePools}}
	w := get(t, newTestRouter(reporter), "/summary")

	var res SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.False(t, res.Connection.Connected)
	require.Empty(t, res.Connection.Pool)
	require.Equal(t, network.ReasonNoActivePools, res.Connection.DisconnectReason)
	require.Empty(t, res.Results.Best)
}

func TestGetMessagesLimit(t *testing.T) {
	reporter := &reporterStub{messages: []telemetry.Message{
		{Text: "first"},
		{Text: "second"},
		{Text: "third"},
	}}
	r := newTestRouter(reporter)

	w := get(t, r, "/messages?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var res []MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res, 2)
	require.Equal(t, "second", res[0].Text)
	require.Equal(t, "third", res[1].Text)

	w = get(t, r, "/messages?limit=abc")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConfig(t *testing.T) {
	w := get(t, newTestRouter(&reporterStub{}), "/config")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "mock://user@pool:3333")
}

func TestMetricsEndpoint(t *testing.T) {
	w := get(t, newTestRouter(&reporterStub{}), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "netcore_"))
}
