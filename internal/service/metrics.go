package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdfconverter_conversions_total",
		Help: "Conversions processed, by document type and outcome.",
	}, []string{"type", "outcome"})

	conversionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pdfconverter_conversion_duration_seconds",
		Help:    "Wall time spent converting a single document.",
		Buckets: prometheus.DefBuckets,
	})

	conversionQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdfconverter_conversion_queue_depth",
		Help: "Jobs waiting for a conversion worker.",
	})
)
