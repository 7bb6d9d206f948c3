package cifscan

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds what a scan counts, so it can be written out for
// node exporter's textfile collector.
type Metrics struct {
	FilesRead   prometheus.Counter
	FileErrors  prometheus.Counter
	BytesRead   prometheus.Counter
	CatsParsed  *prometheus.CounterVec
	ReadSeconds prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	filesRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cifscan_files_read_total",
		Help: "Files read without error",
	})
	fileErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cifscan_file_errors_total",
		Help: "Files which could not be read or parsed",
	})
	bytesRead := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cifscan_bytes_read_total",
		Help: "Bytes on disk of files read without error",
	})
	catsParsed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cifscan_categories_parsed_total",
		Help: "Categories parsed, by name",
	}, []string{"category"})
	readSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cifscan_read_seconds",
		Help:    "Time to read and parse one file",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	reg.MustRegister(filesRead, fileErrors, bytesRead, catsParsed, readSeconds)

	return &Metrics{
		FilesRead:   filesRead,
		FileErrors:  fileErrors,
		BytesRead:   bytesRead,
		CatsParsed:  catsParsed,
		ReadSeconds: readSeconds,
	}
}
