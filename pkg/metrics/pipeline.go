package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records catalog sync runs and tenant import outcomes.
type PipelineMetrics struct {
	syncDuration    *prometheus.HistogramVec
	syncSuccess     *prometheus.CounterVec
	syncFailure     *prometheus.CounterVec
	productsSynced  *prometheus.CounterVec
	importsTotal    *prometheus.CounterVec
	importDuration  *prometheus.HistogramVec
	quotaRejections *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	syncDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_sync_duration_seconds",
		Help:    "Duration of catalog sync runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"config"})
	syncSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_success",
		Help: "Successful catalog sync runs.",
	}, []string{"config"})
	syncFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_failure",
		Help: "Failed catalog sync runs.",
	}, []string{"config"})
	productsSynced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_products_synced",
		Help: "Products upserted into the cache by sync runs.",
	}, []string{"config"})
	importsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "product_imports_total",
		Help: "Tenant product import attempts by outcome.",
	}, []string{"outcome"})
	importDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "product_import_duration_seconds",
		Help:    "Duration of single product imports in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	quotaRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_quota_rejections",
		Help: "Imports rejected by plan quota checks.",
	}, []string{"reason"})
	reg.MustRegister(
		syncDuration,
		syncSuccess,
		syncFailure,
		productsSynced,
		importsTotal,
		importDuration,
		quotaRejections,
	)
	return &PipelineMetrics{
		syncDuration:    syncDuration,
		syncSuccess:     syncSuccess,
		syncFailure:     syncFailure,
		productsSynced:  productsSynced,
		importsTotal:    importsTotal,
		importDuration:  importDuration,
		quotaRejections: quotaRejections,
	}
}

// ObserveSyncDuration records how long a sync run took for the named config.
func (p *PipelineMetrics) ObserveSyncDuration(configID string, duration time.Duration) {
	if p == nil || p.syncDuration == nil {
		return
	}
	p.syncDuration.WithLabelValues(normalizeLabel(configID)).Observe(duration.Seconds())
}

// IncSyncSuccess increments the success counter for the named config.
func (p *PipelineMetrics) IncSyncSuccess(configID string) {
	if p == nil || p.syncSuccess == nil {
		return
	}
	p.syncSuccess.WithLabelValues(normalizeLabel(configID)).Inc()
}

// IncSyncFailure increments the failure counter for the named config.
func (p *PipelineMetrics) IncSyncFailure(configID string) {
	if p == nil || p.syncFailure == nil {
		return
	}
	p.syncFailure.WithLabelValues(normalizeLabel(configID)).Inc()
}

// AddProductsSynced records how many products a sync run upserted.
func (p *PipelineMetrics) AddProductsSynced(configID string, count int) {
	if p == nil || p.productsSynced == nil || count <= 0 {
		return
	}
	p.productsSynced.WithLabelValues(normalizeLabel(configID)).Add(float64(count))
}

// IncImport counts one import attempt with its outcome label.
func (p *PipelineMetrics) IncImport(outcome string) {
	if p == nil || p.importsTotal == nil {
		return
	}
	p.importsTotal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveImportDuration records how long an import took by type.
func (p *PipelineMetrics) ObserveImportDuration(importType string, duration time.Duration) {
	if p == nil || p.importDuration == nil {
		return
	}
	p.importDuration.WithLabelValues(normalizeLabel(importType)).Observe(duration.Seconds())
}

// IncQuotaRejection counts an import rejected by the quota guard.
func (p *PipelineMetrics) IncQuotaRejection(reason string) {
	if p == nil || p.quotaRejections == nil {
		return
	}
	p.quotaRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
