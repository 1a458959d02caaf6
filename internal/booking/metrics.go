package booking

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

// Metrics tracks parse volume and how often fields go missing
type Metrics struct {
	parses    prometheus.Counter
	cacheHits prometheus.Counter
	missing   *prometheus.CounterVec
	duration  prometheus.Histogram
	handler   http.Handler
}

// NewMetrics registers the parser metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		parses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onvacation_parses_total",
			Help: "Total number of OCR transcripts parsed",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onvacation_parse_cache_hits_total",
			Help: "Total number of parses served from the result cache",
		}),
		missing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onvacation_missing_fields_total",
			Help: "Total number of fields left empty by the parser",
		}, []string{"field"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "onvacation_parse_duration_seconds",
			Help:    "Time taken to parse a transcript",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
	}

	reg.MustRegister(m.parses, m.cacheHits, m.missing, m.duration)

	m.handler = promhttp.Handler()
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.handler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return m
}

// Handler serves the registered metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return m.handler
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) observe(result *extraction.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.parses.Inc()
	m.duration.Observe(elapsed.Seconds())

	fields := map[string]bool{
		"origin":         result.Origin == nil,
		"destination":    result.Destination == nil,
		"rooms_count":    result.RoomsCount == nil,
		"departure_date": result.DepartureDate == nil,
		"return_date":    result.ReturnDate == nil,
		"currency":       result.Currency == nil,
	}
	for field, missing := range fields {
		if missing {
			m.missing.WithLabelValues(field).Inc()
		}
	}
	for _, room := range result.Rooms {
		if room.Adults == nil {
			m.missing.WithLabelValues("room_occupancy").Inc()
		}
	}
}
