package monitor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pysugar/zoho-dashboard/internal/db/models"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/upstream"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.RequestLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestObserveCall_RecordsAndCounts(t *testing.T) {
	m := New(newTestDB(t))
	ctx := logging.WithRequestID(context.Background(), "req-1")

	m.ObserveCall(ctx, upstream.Call{Method: http.MethodGet, URL: "https://x/a", Status: 401, Attempt: 1, ResponseBody: []byte(`{"code":"INVALID_TOKEN"}`)})
	m.ObserveCall(ctx, upstream.Call{Method: http.MethodGet, URL: "https://x/a", Status: 200, Attempt: 2, Duration: 15 * time.Millisecond, ResponseBody: []byte(`{"data":[]}`)})
	m.ObserveCall(ctx, upstream.Call{Method: http.MethodGet, URL: "https://x/b", Attempt: 1, Err: errors.New("connection refused")})
	m.Close()

	stats := m.Stats()
	if stats.TotalRequests != 3 || stats.SuccessCount != 1 || stats.ErrorCount != 2 || stats.RetryCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	recent := m.Recent()
	if len(recent) != 3 || recent[0].URL != "https://x/b" || recent[0].Error != "connection refused" {
		t.Fatalf("unexpected recent logs %+v", recent)
	}
	if recent[1].ResponseBody != "" || recent[1].Duration != 15 {
		t.Fatalf("successful call should keep duration and drop body: %+v", recent[1])
	}
	if recent[2].ResponseBody == "" || recent[2].RequestID != "req-1" {
		t.Fatalf("failed call should keep body and request id: %+v", recent[2])
	}

	logs := m.Logs(10, 0)
	if len(logs) != 3 {
		t.Fatalf("expected 3 persisted logs, got %d", len(logs))
	}
}

func TestMemoryCacheIsBounded(t *testing.T) {
	m := New(newTestDB(t))
	for i := 0; i < MaxMemoryLogs+20; i++ {
		m.Record(models.RequestLog{ID: uuid.New().String(), Status: 200, Attempt: 1})
	}
	m.Close()

	if got := len(m.Recent()); got != MaxMemoryLogs {
		t.Fatalf("expected %d cached logs, got %d", MaxMemoryLogs, got)
	}
	if m.Stats().TotalRequests != int64(MaxMemoryLogs+20) {
		t.Fatalf("counters must not be bounded: %+v", m.Stats())
	}
}

func TestStatsReloadedFromDB(t *testing.T) {
	db := newTestDB(t)
	first := New(db)
	first.Record(models.RequestLog{ID: "a", Status: 200, Attempt: 1})
	first.Record(models.RequestLog{ID: "b", Status: 500, Attempt: 2})
	first.Close()

	second := New(db)
	stats := second.Stats()
	if stats.TotalRequests != 2 || stats.SuccessCount != 1 || stats.ErrorCount != 1 || stats.RetryCount != 1 {
		t.Fatalf("unexpected reloaded stats %+v", stats)
	}
}

func TestClear(t *testing.T) {
	m := New(newTestDB(t))
	m.Record(models.RequestLog{ID: "a", Status: 200, Attempt: 1})

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(m.Recent()) != 0 || len(m.Logs(10, 0)) != 0 || m.Stats().TotalRequests != 0 {
		t.Fatalf("monitor not cleared")
	}
}

func TestClearConcurrentWithRecord(t *testing.T) {
	db := newTestDB(t)
	m := New(db)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m.Record(models.RequestLog{Status: 200, Attempt: 1})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := m.Clear(); err != nil {
				t.Errorf("Clear: %v", err)
			}
		}
	}()
	wg.Wait()
	m.Close()

	// Every row that survived the last clear is counted, and nothing counted is missing.
	var persisted int64
	if err := db.Model(&models.RequestLog{}).Count(&persisted).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	total := m.Stats().TotalRequests
	if persisted != total {
		t.Fatalf("persisted %d rows but counted %d", persisted, total)
	}
	want := int(total)
	if want > MaxMemoryLogs {
		want = MaxMemoryLogs
	}
	if got := len(m.Recent()); got != want {
		t.Fatalf("expected %d cached logs, got %d", want, got)
	}
}
