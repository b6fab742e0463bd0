package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "image_set_mapper"

var (
	// Inbound events by outcome: mapped, skipped, failed.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of inbound events by outcome",
		},
		[]string{"outcome"},
	)

	MissingImageBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_image_bytes_total",
			Help:      "Total number of image records rejected because they carry no image bytes",
		},
	)

	ExtractionWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_warnings_total",
			Help:      "Total number of attachment fields left unset while extracting attributes",
		},
		[]string{"document"},
	)

	MessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "Total number of messages handed to the outbound topic",
		},
	)

	DeadLettersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_letters_total",
			Help:      "Dead letter lifecycle events: written, redriven, reclaimed, exhausted",
		},
		[]string{"event"},
	)
)
