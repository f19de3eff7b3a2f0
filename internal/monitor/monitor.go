// Package monitor records every vendor API exchange made by the gateway.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/zoho-dashboard/internal/db/models"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/upstream"
	"gorm.io/gorm"
)

const (
	// MaxResponseBodySize limits stored response bodies to 64KB
	MaxResponseBodySize = 64 * 1024
	// MaxMemoryLogs limits the in-memory log cache
	MaxMemoryLogs = 100
)

// CallMonitor keeps recent vendor calls in memory and persists them asynchronously.
type CallMonitor struct {
	db *gorm.DB

	recentLogs []models.RequestLog
	logsMu     sync.RWMutex

	totalRequests atomic.Int64
	successCount  atomic.Int64
	errorCount    atomic.Int64
	retryCount    atomic.Int64

	// pending tracks async saves so Close can wait for them.
	pending sync.WaitGroup
	// recordMu is held shared by Record and exclusively by Clear and Close, so no
	// save can be scheduled while they wait on pending.
	recordMu sync.RWMutex
}

// New creates a CallMonitor. Counters start from what request_logs already holds.
func New(db *gorm.DB) *CallMonitor {
	m := &CallMonitor{
		db:         db,
		recentLogs: make([]models.RequestLog, 0, MaxMemoryLogs),
	}
	m.loadStatsFromDB()
	return m
}

// ObserveCall implements upstream.Observer.
func (m *CallMonitor) ObserveCall(ctx context.Context, call upstream.Call) {
	entry := models.RequestLog{
		RequestID: logging.GetRequestID(ctx),
		Method:    call.Method,
		URL:       call.URL,
		Status:    call.Status,
		Duration:  call.Duration.Milliseconds(),
		Attempt:   call.Attempt,
	}
	if call.Err != nil {
		entry.Error = call.Err.Error()
	}
	// Successful bodies hold business data; only failures are kept for diagnosis.
	if call.Status >= 400 && len(call.ResponseBody) > 0 {
		entry.ResponseBody = string(call.ResponseBody)
		if len(entry.ResponseBody) > MaxResponseBodySize {
			entry.ResponseBody = entry.ResponseBody[:MaxResponseBodySize] + "...[truncated]"
		}
	}
	m.Record(entry)
}

// Record stores entry (async, non-blocking)
func (m *CallMonitor) Record(entry models.RequestLog) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	m.recordMu.RLock()
	defer m.recordMu.RUnlock()

	m.totalRequests.Add(1)
	if entry.Failed() {
		m.errorCount.Add(1)
	} else {
		m.successCount.Add(1)
	}
	if entry.Attempt > 1 {
		m.retryCount.Add(1)
	}

	m.logsMu.Lock()
	m.recentLogs = append([]models.RequestLog{entry}, m.recentLogs...)
	if len(m.recentLogs) > MaxMemoryLogs {
		m.recentLogs = m.recentLogs[:MaxMemoryLogs]
	}
	m.logsMu.Unlock()

	m.pending.Add(1)
	go func(e models.RequestLog) {
		defer m.pending.Done()
		if err := m.db.Create(&e).Error; err != nil {
			logging.Warn("failed to save request log", "error", err)
		}
	}(entry)
}

// Logs returns recent entries, newest first. sinceMinutes > 0 filters by age.
func (m *CallMonitor) Logs(limit, sinceMinutes int) []models.RequestLog {
	if limit <= 0 || limit > 1000 {
		limit = MaxMemoryLogs
	}

	var logs []models.RequestLog
	query := m.db.Order("timestamp DESC").Limit(limit)
	if sinceMinutes > 0 {
		since := time.Now().Add(-time.Duration(sinceMinutes) * time.Minute).UnixMilli()
		query = query.Where("timestamp >= ?", since)
	}

	if err := query.Find(&logs).Error; err != nil {
		logging.Warn("failed to read request logs, serving memory cache", "error", err)
		m.logsMu.RLock()
		defer m.logsMu.RUnlock()
		if limit > len(m.recentLogs) {
			limit = len(m.recentLogs)
		}
		out := make([]models.RequestLog, limit)
		copy(out, m.recentLogs[:limit])
		return out
	}
	return logs
}

// Recent returns the in-memory cache, newest first.
func (m *CallMonitor) Recent() []models.RequestLog {
	m.logsMu.RLock()
	defer m.logsMu.RUnlock()
	out := make([]models.RequestLog, len(m.recentLogs))
	copy(out, m.recentLogs)
	return out
}

// Stats returns aggregated request statistics
func (m *CallMonitor) Stats() models.RequestStats {
	return models.RequestStats{
		TotalRequests: m.totalRequests.Load(),
		SuccessCount:  m.successCount.Load(),
		ErrorCount:    m.errorCount.Load(),
		RetryCount:    m.retryCount.Load(),
	}
}

// Clear removes all logs from memory and database
func (m *CallMonitor) Clear() error {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()
	m.pending.Wait()

	m.logsMu.Lock()
	m.recentLogs = m.recentLogs[:0]
	m.logsMu.Unlock()

	m.totalRequests.Store(0)
	m.successCount.Store(0)
	m.errorCount.Store(0)
	m.retryCount.Store(0)

	if err := m.db.Exec("DELETE FROM request_logs").Error; err != nil {
		return err
	}
	logging.Info("request logs cleared")
	return nil
}

// Close waits for pending writes.
func (m *CallMonitor) Close() {
	m.recordMu.Lock()
	defer m.recordMu.Unlock()
	m.pending.Wait()
}

func (m *CallMonitor) loadStatsFromDB() {
	var total, success, errs, retries int64

	m.db.Model(&models.RequestLog{}).Count(&total)
	m.db.Model(&models.RequestLog{}).Where("status >= 200 AND status < 400 AND (error IS NULL OR error = '')").Count(&success)
	m.db.Model(&models.RequestLog{}).Where("attempt > 1").Count(&retries)
	errs = total - success

	m.totalRequests.Store(total)
	m.successCount.Store(success)
	m.errorCount.Store(errs)
	m.retryCount.Store(retries)

	logging.Debug("loaded request stats", "total", total, "success", success, "errors", errs, "retries", retries)
}
