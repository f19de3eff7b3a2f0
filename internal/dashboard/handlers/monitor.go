package handlers

import (
	"net/http"
	"strconv"

	"github.com/pysugar/zoho-dashboard/internal/monitor"
)

// MonitorLogsHandler returns recent vendor calls
// GET /api/monitor/logs?limit=&since=
func MonitorLogsHandler(m *monitor.CallMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
			limit = l
		}
		since, _ := strconv.Atoi(r.URL.Query().Get("since"))

		logs := m.Logs(limit, since)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"logs":  logs,
			"count": len(logs),
		})
	}
}

// MonitorStatsHandler returns aggregated call statistics
func MonitorStatsHandler(m *monitor.CallMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.Stats())
	}
}

// ClearMonitorHandler clears all call logs
func ClearMonitorHandler(m *monitor.CallMonitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Clear(); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
