package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records the outcome of business sync runs.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	synced   *prometheus.CounterVec
	skipped  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_duration_seconds",
		Help:    "Duration of business sync runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"region"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_success",
		Help: "Successful business sync runs.",
	}, []string{"region"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_failure",
		Help: "Failed business sync runs.",
	}, []string{"region"})
	synced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_businesses_synced_total",
		Help: "Businesses written during sync runs.",
	}, []string{"region"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_elements_skipped_total",
		Help: "Feed elements skipped during sync runs.",
	}, []string{"region", "reason"})
	reg.MustRegister(duration, success, failure, synced, skipped)
	return &SyncMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		synced:   synced,
		skipped:  skipped,
	}
}

// ObserveDuration records the duration of a sync run for the region.
func (s *SyncMetrics) ObserveDuration(region string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(region)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the region.
func (s *SyncMetrics) IncSuccess(region string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(region)).Inc()
}

// IncFailure increments the failure counter for the region.
func (s *SyncMetrics) IncFailure(region string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(region)).Inc()
}

// AddSynced adds written-record counts for the region.
func (s *SyncMetrics) AddSynced(region string, count int) {
	if s == nil || s.synced == nil || count <= 0 {
		return
	}
	s.synced.WithLabelValues(normalizeLabel(region)).Add(float64(count))
}

// IncSkipped counts an element skipped for the given reason.
func (s *SyncMetrics) IncSkipped(region, reason string) {
	if s == nil || s.skipped == nil {
		return
	}
	s.skipped.WithLabelValues(normalizeLabel(region), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
