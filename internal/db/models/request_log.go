package models

// RequestLog stores one vendor API exchange for monitoring
type RequestLog struct {
	ID           string `gorm:"primaryKey" json:"id"`
	RequestID    string `gorm:"index" json:"request_id,omitempty"`
	Timestamp    int64  `gorm:"index" json:"timestamp"`
	Method       string `json:"method"`
	URL          string `json:"url"`
	Status       int    `json:"status"`
	Duration     int64  `json:"duration"` // milliseconds
	Attempt      int    `json:"attempt"`  // 1 for the first call, 2 for the retry after a refresh
	Error        string `json:"error,omitempty"`
	ResponseBody string `gorm:"type:text" json:"response_body,omitempty"`
}

// RequestStats holds aggregated statistics for request logs
type RequestStats struct {
	TotalRequests int64 `json:"total_requests"`
	SuccessCount  int64 `json:"success_count"`
	ErrorCount    int64 `json:"error_count"`
	RetryCount    int64 `json:"retry_count"`
}

// Failed reports whether the exchange failed (transport error or non 2xx/3xx status).
func (l RequestLog) Failed() bool {
	return l.Error != "" || l.Status < 200 || l.Status >= 400
}
