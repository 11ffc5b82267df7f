package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nexus_gateway"

// Metrics коллекторы шлюза. Методы безопасны для nil-получателя,
// поэтому сервисы в тестах создаются без метрик.
type Metrics struct {
	quotes          *prometheus.CounterVec
	verdicts        *prometheus.CounterVec
	callbacks       *prometheus.CounterVec
	recalls         *prometheus.CounterVec
	eventsPublished prometheus.Counter
	gatherer        prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		quotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_issued_total",
			Help:      "Quotes issued per corridor and rate kind.",
		}, []string{"corridor", "rate_kind"}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verdicts_total",
			Help:      "pacs.008 verdicts by status and reason code.",
		}, []string{"status", "reason"}),
		callbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_attempts_total",
			Help:      "Callback delivery attempts by outcome.",
		}, []string{"outcome"}),
		recalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recall_transitions_total",
			Help:      "Recall case transitions by target status.",
		}, []string{"status"}),
		eventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Payment events relayed to kafka.",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) QuoteIssued(corridor, rateKind string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(corridor, rateKind).Inc()
}

func (m *Metrics) Verdict(status, reason string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(status, reason).Inc()
}

// CallbackAttempt outcome: delivered, retry, failed
func (m *Metrics) CallbackAttempt(outcome string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecallTransition(status string) {
	if m == nil {
		return
	}
	m.recalls.WithLabelValues(status).Inc()
}

func (m *Metrics) EventsPublished(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.eventsPublished.Add(float64(n))
}

// Handler отдает /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
