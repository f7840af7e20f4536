// Package metrics exposes Prometheus counters for report parsing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

const namespace = "titulos"

// Outcome labels for DocumentsParsed.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	DocumentsParsed  *prometheus.CounterVec
	EntriesExtracted prometheus.Counter
	ClientsEmitted   prometheus.Counter
	ClientsDiscarded prometheus.Counter
	Lines            *prometheus.CounterVec
	ParseDuration    prometheus.Histogram
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which is what tests that only read values want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_parsed_total",
			Help:      "Report documents processed, by outcome.",
		}, []string{"outcome"}),
		EntriesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_extracted_total",
			Help:      "Overdue entries attached to a client.",
		}),
		ClientsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_emitted_total",
			Help:      "Client blocks emitted with at least one entry.",
		}),
		ClientsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_discarded_total",
			Help:      "Client blocks dropped because they had no entries.",
		}),
		Lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Report lines, by classification.",
		}, []string{"kind"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_parse_duration_seconds",
			Help:      "Time spent extracting and parsing one document.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.DocumentsParsed,
			m.EntriesExtracted,
			m.ClientsEmitted,
			m.ClientsDiscarded,
			m.Lines,
			m.ParseDuration,
		)
	}
	return m
}

// ObserveDocument records the outcome of one document. Safe on a nil receiver.
func (m *Metrics) ObserveDocument(doc *models.Document, elapsed time.Duration) {
	if m == nil || doc == nil {
		return
	}
	if doc.Error != "" {
		m.DocumentsParsed.WithLabelValues(OutcomeError).Inc()
	} else {
		m.DocumentsParsed.WithLabelValues(OutcomeOK).Inc()
	}
	m.EntriesExtracted.Add(float64(doc.Stats.Entries))
	m.ClientsEmitted.Add(float64(doc.Stats.ClientsEmitted))
	m.ClientsDiscarded.Add(float64(doc.Stats.ClientsDiscarded))
	for kind, n := range doc.Stats.Lines {
		m.Lines.WithLabelValues(string(kind)).Add(float64(n))
	}
	m.ParseDuration.Observe(elapsed.Seconds())
}
