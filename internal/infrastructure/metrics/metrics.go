package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build independent instances.
type Metrics struct {
	Registry *prometheus.Registry

	JobsSubmitted   prometheus.Counter
	JobsFinished    *prometheus.CounterVec
	ActiveJobs      prometheus.Gauge
	JobDuration     prometheus.Histogram
	AssetsUploaded  *prometheus.CounterVec
	UploadBytes     prometheus.Counter
	Subscribers     prometheus.Gauge
	FilesSwept      prometheus.Counter
	ArchiveFailures prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		JobsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "media_jobs_submitted_total",
			Help: "Jobs accepted for processing",
		}),
		JobsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "media_jobs_finished_total",
			Help: "Jobs that reached a terminal state",
		}, []string{"state"}),
		ActiveJobs: f.NewGauge(prometheus.GaugeOpts{
			Name: "media_jobs_active",
			Help: "Jobs not yet terminal",
		}),
		JobDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "media_job_duration_seconds",
			Help:    "Wall time from submission to terminal state",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		AssetsUploaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "media_assets_uploaded_total",
			Help: "Registered assets by media kind",
		}, []string{"kind"}),
		UploadBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "media_upload_bytes_total",
			Help: "Bytes stored by the upload registry",
		}),
		Subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "media_event_subscribers",
			Help: "Live progress subscriptions",
		}),
		FilesSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "media_swept_files_total",
			Help: "Files removed by the periodic sweep",
		}),
		ArchiveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "media_archive_failures_total",
			Help: "Completed outputs that could not be archived",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
