package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records per-run counters for the ETL stages.
type PipelineMetrics struct {
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_rows_total",
		Help: "Rows processed per entity and cleaning outcome.",
	}, []string{"entity", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "etl_stage_duration_seconds",
		Help:    "Duration of pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_run_success",
		Help: "Successful pipeline runs.",
	}, []string{"pipeline"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_run_failure",
		Help: "Failed pipeline runs.",
	}, []string{"pipeline"})
	reg.MustRegister(rows, duration, success, failure)
	return &PipelineMetrics{
		rows:     rows,
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// AddRows records row counts for an entity under the named outcome
// (read, kept, dropped, deduplicated, defaulted).
func (p *PipelineMetrics) AddRows(entity, outcome string, count int) {
	if p == nil || p.rows == nil || count <= 0 {
		return
	}
	p.rows.WithLabelValues(normalizeLabel(entity), normalizeLabel(outcome)).Add(float64(count))
}

// ObserveStage records the duration of the named stage.
func (p *PipelineMetrics) ObserveStage(stage string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named pipeline.
func (p *PipelineMetrics) IncSuccess(pipeline string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(pipeline)).Inc()
}

// IncFailure increments the failure counter for the named pipeline.
func (p *PipelineMetrics) IncFailure(pipeline string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(pipeline)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
