package service

import (
	"sync"
	"time"
)

// ProfileMetrics holds metrics for one profile bucket of a generation run.
type ProfileMetrics struct {
	ProfileKey   string        `json:"profileKey"`
	StartedAt    time.Time     `json:"startedAt"`
	CompletedAt  time.Time     `json:"completedAt"`
	Files        int           `json:"files"`
	Records      int           `json:"records"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// MetricsCollector collects and aggregates generation run metrics.
type MetricsCollector struct {
	mu             sync.RWMutex
	currentRun     map[string]*ProfileMetrics
	lastRun        map[string]*ProfileMetrics
	totalRuns      int
	successfulRuns int
	failedRuns     int
	lastRunTime    time.Time
	lastRunTook    time.Duration
	runStarted     time.Time
}

// NewMetricsCollector creates a new MetricsCollector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		currentRun: make(map[string]*ProfileMetrics),
		lastRun:    make(map[string]*ProfileMetrics),
	}
}

// StartRun marks the beginning of a generation run.
func (mc *MetricsCollector) StartRun() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.runStarted = time.Now()
	mc.currentRun = make(map[string]*ProfileMetrics)
}

// StartProfile records the start of generation for a profile
func (mc *MetricsCollector) StartProfile(profileKey string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.currentRun[profileKey] = &ProfileMetrics{
		ProfileKey: profileKey,
		StartedAt:  time.Now(),
	}
}

// RecordSuccess records a completed profile bucket
func (mc *MetricsCollector) RecordSuccess(profileKey string, files, records int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if m, ok := mc.currentRun[profileKey]; ok {
		m.CompletedAt = time.Now()
		m.Duration = m.CompletedAt.Sub(m.StartedAt)
		m.Files = files
		m.Records = records
		m.Success = true
	}
}

// RecordFailure records a failed profile bucket
func (mc *MetricsCollector) RecordFailure(profileKey string, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if m, ok := mc.currentRun[profileKey]; ok {
		m.CompletedAt = time.Now()
		m.Duration = m.CompletedAt.Sub(m.StartedAt)
		m.Success = false
		if err != nil {
			m.ErrorMessage = err.Error()
		}
	}
}

// FinishRun marks the current run as complete and moves metrics to lastRun.
// A run succeeds only if every profile in it succeeded.
func (mc *MetricsCollector) FinishRun() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	ok := len(mc.currentRun) > 0
	for _, m := range mc.currentRun {
		if !m.Success {
			ok = false
		}
	}
	if ok {
		mc.successfulRuns++
	} else {
		mc.failedRuns++
	}

	mc.totalRuns++
	mc.lastRunTime = time.Now()
	if !mc.runStarted.IsZero() {
		mc.lastRunTook = mc.lastRunTime.Sub(mc.runStarted)
	}
	mc.lastRun = mc.currentRun
	mc.currentRun = make(map[string]*ProfileMetrics)
}

// GetLastRunMetrics returns metrics from the last completed run
func (mc *MetricsCollector) GetLastRunMetrics() map[string]*ProfileMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]*ProfileMetrics, len(mc.lastRun))
	for k, v := range mc.lastRun {
		metricsCopy := *v
		result[k] = &metricsCopy
	}
	return result
}

// MetricsSummary provides an overview of generation runs
type MetricsSummary struct {
	TotalRuns       int           `json:"totalRuns"`
	TotalSuccessful int           `json:"totalSuccessful"`
	TotalFailed     int           `json:"totalFailed"`
	LastRunTime     time.Time     `json:"lastRunTime"`
	LastRunDuration time.Duration `json:"lastRunDuration"`
	LastRunFiles    int           `json:"lastRunFiles"`
	LastRunRecords  int           `json:"lastRunRecords"`
	LastRunFailures []string      `json:"lastRunFailures,omitempty"`
}

// GetSummary returns a summary of all generation runs
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	summary := MetricsSummary{
		TotalRuns:       mc.totalRuns,
		TotalSuccessful: mc.successfulRuns,
		TotalFailed:     mc.failedRuns,
		LastRunTime:     mc.lastRunTime,
		LastRunDuration: mc.lastRunTook,
	}

	for key, m := range mc.lastRun {
		if m.Success {
			summary.LastRunFiles += m.Files
			summary.LastRunRecords += m.Records
		} else {
			summary.LastRunFailures = append(summary.LastRunFailures, key)
		}
	}

	return summary
}
