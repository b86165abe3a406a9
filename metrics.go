package fhiretl

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks pipeline performance metrics using lock-free atomic
// operations. All methods are safe for concurrent use.
type Metrics struct {
	// Bundle parsing counts
	bundlesTotal   atomic.Uint64
	resourcesTotal atomic.Uint64

	// Bundle parse timing (stored as nanoseconds)
	parseTimeTotal atomic.Uint64
	parseTimeMin   atomic.Uint64
	parseTimeMax   atomic.Uint64

	// Row counts across the silver layer
	rowsTransformed atomic.Uint64
	rowsValid       atomic.Uint64
	rowsInvalid     atomic.Uint64

	// Per-stage timing (map access protected by sync.Map)
	stageTiming sync.Map // map[string]*stageMetrics
}

// stageMetrics tracks metrics for a single pipeline stage.
type stageMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	rows        atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first value becomes the minimum
	m.parseTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordBundle records one parsed bundle file and its resource count.
func (m *Metrics) RecordBundle(duration time.Duration, resources int) {
	m.bundlesTotal.Add(1)
	m.resourcesTotal.Add(uint64(resources)) //nolint:gosec // Safe: resource counts are small non-negative integers

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.parseTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.parseTimeMin.Load()
		if ns >= old {
			break
		}
		if m.parseTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.parseTimeMax.Load()
		if ns <= old {
			break
		}
		if m.parseTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRows records validated row outcomes for one silver table.
func (m *Metrics) RecordRows(valid, invalid int) {
	m.rowsTransformed.Add(uint64(valid + invalid)) //nolint:gosec // Safe: row counts are non-negative
	m.rowsValid.Add(uint64(valid))                 //nolint:gosec // Safe: row counts are non-negative
	m.rowsInvalid.Add(uint64(invalid))             //nolint:gosec // Safe: row counts are non-negative
}

// RecordStage records timing and row throughput for a pipeline stage.
func (m *Metrics) RecordStage(stageName string, duration time.Duration, rows int) {
	sm := m.getOrCreateStageMetrics(stageName)
	sm.invocations.Add(1)
	sm.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	sm.rows.Add(uint64(rows))                        //nolint:gosec // Safe: row counts are non-negative
}

func (m *Metrics) getOrCreateStageMetrics(name string) *stageMetrics {
	if v, ok := m.stageTiming.Load(name); ok {
		return v.(*stageMetrics)
	}
	sm := &stageMetrics{}
	actual, _ := m.stageTiming.LoadOrStore(name, sm)
	return actual.(*stageMetrics)
}

// --- Query Methods ---

// BundlesTotal returns the total number of bundle files parsed.
func (m *Metrics) BundlesTotal() uint64 {
	return m.bundlesTotal.Load()
}

// ResourcesTotal returns the total number of resources extracted from bundles.
func (m *Metrics) ResourcesTotal() uint64 {
	return m.resourcesTotal.Load()
}

// RowsTransformed returns the total number of silver rows produced.
func (m *Metrics) RowsTransformed() uint64 {
	return m.rowsTransformed.Load()
}

// RowsValid returns the number of silver rows with no validation errors.
func (m *Metrics) RowsValid() uint64 {
	return m.rowsValid.Load()
}

// RowsInvalid returns the number of silver rows with validation errors.
func (m *Metrics) RowsInvalid() uint64 {
	return m.rowsInvalid.Load()
}

// ValidityRate returns the fraction of valid silver rows (0.0 to 1.0).
func (m *Metrics) ValidityRate() float64 {
	total := m.rowsTransformed.Load()
	if total == 0 {
		return 0
	}
	return float64(m.rowsValid.Load()) / float64(total)
}

// AverageParseTime returns the average bundle parse duration.
func (m *Metrics) AverageParseTime() time.Duration {
	total := m.bundlesTotal.Load()
	if total == 0 {
		return 0
	}
	avgNs := m.parseTimeTotal.Load() / total
	return time.Duration(avgNs) //nolint:gosec // Safe: avgNs represents nanoseconds within int64 range
}

// MinParseTime returns the minimum bundle parse duration.
func (m *Metrics) MinParseTime() time.Duration {
	minVal := m.parseTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxParseTime returns the maximum bundle parse duration.
func (m *Metrics) MaxParseTime() time.Duration {
	return time.Duration(m.parseTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// StageStats contains statistics for a single pipeline stage.
type StageStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
	Rows        uint64
}

// StageStats returns statistics for a specific stage.
func (m *Metrics) StageStats(stageName string) (StageStats, bool) {
	v, ok := m.stageTiming.Load(stageName)
	if !ok {
		return StageStats{}, false
	}
	sm := v.(*stageMetrics)

	stats := StageStats{
		Name:        stageName,
		Invocations: sm.invocations.Load(),
		TotalTime:   time.Duration(sm.totalTime.Load()), //nolint:gosec // Safe: nanoseconds within int64 range
		Rows:        sm.rows.Load(),
	}
	if stats.Invocations > 0 {
		stats.AvgTime = time.Duration(sm.totalTime.Load() / stats.Invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}
	return stats, true
}

// AllStageStats returns statistics for all recorded stages.
func (m *Metrics) AllStageStats() []StageStats {
	var all []StageStats
	m.stageTiming.Range(func(key, _ any) bool {
		if stats, ok := m.StageStats(key.(string)); ok {
			all = append(all, stats)
		}
		return true
	})
	return all
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.bundlesTotal.Store(0)
	m.resourcesTotal.Store(0)
	m.parseTimeTotal.Store(0)
	m.parseTimeMin.Store(^uint64(0))
	m.parseTimeMax.Store(0)
	m.rowsTransformed.Store(0)
	m.rowsValid.Store(0)
	m.rowsInvalid.Store(0)
	m.stageTiming.Range(func(key, _ any) bool {
		m.stageTiming.Delete(key)
		return true
	})
}
