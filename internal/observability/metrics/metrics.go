// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_advisor_stream"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Media intake metrics
	IntakeConnectionsTotal  prometheus.Counter
	IntakeConnectionsActive prometheus.Gauge
	MediaFramesReceived     prometheus.Counter
	MediaBytesReceived      prometheus.Counter
	IntakeProtocolErrors    *prometheus.CounterVec

	// Transcript metrics
	TranscriptsInterim prometheus.Counter
	TranscriptsFinal   prometheus.Counter

	// Session lifecycle metrics
	SessionsStarted prometheus.Counter
	SessionsClosed  prometheus.Counter
	SessionErrors   *prometheus.CounterVec

	// Intent routing metrics
	IntentsRouted     *prometheus.CounterVec
	IntentsSkipped    *prometheus.CounterVec
	ClassifierLatency prometheus.Histogram
	ClassifierErrors  prometheus.Counter

	// Broadcast metrics
	SubscribersActive prometheus.Gauge
	BroadcastsTotal   *prometheus.CounterVec
	CardsDelivered    prometheus.Counter
	DeliveryFailures  prometheus.Counter

	// Summarizer metrics
	SummariesGenerated prometheus.Counter
	SummarizerErrors   prometheus.Counter
	SummarizerLatency  prometheus.Histogram

	// Market data metrics
	MarketDataRequests *prometheus.CounterVec
	APIKeysExhausted   prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		IntakeConnectionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_connections_total",
			Help:      "Total number of media intake connections accepted",
		}),
		IntakeConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "intake_connections_active",
			Help:      "Number of currently active media intake connections",
		}),
		MediaFramesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_frames_received_total",
			Help:      "Total media frames received on intake connections",
		}),
		MediaBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_bytes_received_total",
			Help:      "Total decoded audio bytes received",
		}),
		IntakeProtocolErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_protocol_errors_total",
			Help:      "Total malformed intake frames answered with an error frame",
		}, []string{"reason"}),

		TranscriptsInterim: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_interim_total",
			Help:      "Total number of interim transcripts received",
		}),
		TranscriptsFinal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Total number of final transcripts received",
		}),

		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_sessions_started_total",
			Help:      "Total number of transcription sessions started",
		}),
		SessionsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_sessions_closed_total",
			Help:      "Total number of transcription sessions closed",
		}),
		SessionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_session_errors_total",
			Help:      "Total number of transcription session errors",
		}, []string{"provider"}),

		IntentsRouted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_routed_total",
			Help:      "Total utterances routed to an intent handler",
		}, []string{"category"}),
		IntentsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_skipped_total",
			Help:      "Total utterances skipped by the router",
		}, []string{"reason"}),
		ClassifierLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_latency_seconds",
			Help:      "Intent classifier call latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		ClassifierErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_errors_total",
			Help:      "Total classifier failures degraded to Unknown",
		}),

		SubscribersActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard_subscribers_active",
			Help:      "Number of currently registered dashboard subscribers",
		}),
		BroadcastsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Total card broadcasts by card kind",
		}, []string{"kind"}),
		CardsDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_delivered_total",
			Help:      "Total successful per-subscriber card deliveries",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "card_delivery_failures_total",
			Help:      "Total failed per-subscriber card deliveries",
		}),

		SummariesGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_generated_total",
			Help:      "Total meeting summaries generated",
		}),
		SummarizerErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarizer_errors_total",
			Help:      "Total summarizer failures degraded to fallback summaries",
		}),
		SummarizerLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summarizer_latency_seconds",
			Help:      "Summarizer call latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		MarketDataRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_data_requests_total",
			Help:      "Total market data fetches by outcome",
		}, []string{"outcome"}),
		APIKeysExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_data_keys_exhausted_total",
			Help:      "Total fetches rejected because every API key was rate limited",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordIntakeConnect records a new intake connection.
func (m *Metrics) RecordIntakeConnect() {
	m.IntakeConnectionsTotal.Inc()
	m.IntakeConnectionsActive.Inc()
}

// RecordIntakeDisconnect records an intake connection ending.
func (m *Metrics) RecordIntakeDisconnect() {
	m.IntakeConnectionsActive.Dec()
}

// RecordMediaFrame records one decoded media frame.
func (m *Metrics) RecordMediaFrame(bytes int) {
	m.MediaFramesReceived.Inc()
	m.MediaBytesReceived.Add(float64(bytes))
}

// RecordProtocolError records a malformed intake frame.
func (m *Metrics) RecordProtocolError(reason string) {
	m.IntakeProtocolErrors.WithLabelValues(reason).Inc()
}

// RecordInterimTranscript records an interim transcript received.
func (m *Metrics) RecordInterimTranscript() {
	m.TranscriptsInterim.Inc()
}

// RecordFinalTranscript records a final transcript received.
func (m *Metrics) RecordFinalTranscript() {
	m.TranscriptsFinal.Inc()
}

// RecordSessionStarted records a transcription session opening.
func (m *Metrics) RecordSessionStarted() {
	m.SessionsStarted.Inc()
}

// RecordSessionClosed records a transcription session releasing its resources.
func (m *Metrics) RecordSessionClosed() {
	m.SessionsClosed.Inc()
}

// RecordSessionError records a transcription session transport error.
func (m *Metrics) RecordSessionError(provider string) {
	m.SessionErrors.WithLabelValues(provider).Inc()
}

// RecordIntentRouted records an utterance dispatched to an intent handler.
func (m *Metrics) RecordIntentRouted(category string) {
	m.IntentsRouted.WithLabelValues(category).Inc()
}

// RecordIntentSkipped records an utterance the router skipped.
func (m *Metrics) RecordIntentSkipped(reason string) {
	m.IntentsSkipped.WithLabelValues(reason).Inc()
}

// RecordClassifierCall records a classifier invocation.
func (m *Metrics) RecordClassifierCall(err error, latencySeconds float64) {
	m.ClassifierLatency.Observe(latencySeconds)
	if err != nil {
		m.ClassifierErrors.Inc()
	}
}

// RecordSubscriberCount records the current dashboard subscriber count.
func (m *Metrics) RecordSubscriberCount(n int) {
	m.SubscribersActive.Set(float64(n))
}

// RecordBroadcast records one fan-out broadcast.
func (m *Metrics) RecordBroadcast(kind string, delivered int) {
	m.BroadcastsTotal.WithLabelValues(kind).Inc()
	m.CardsDelivered.Add(float64(delivered))
}

// RecordDeliveryFailure records one failed subscriber delivery.
func (m *Metrics) RecordDeliveryFailure() {
	m.DeliveryFailures.Inc()
}

// RecordSummary records a summarizer invocation.
func (m *Metrics) RecordSummary(err error, latencySeconds float64) {
	m.SummarizerLatency.Observe(latencySeconds)
	if err != nil {
		m.SummarizerErrors.Inc()
		return
	}
	m.SummariesGenerated.Inc()
}

// RecordMarketData records a market data fetch outcome.
func (m *Metrics) RecordMarketData(outcome string) {
	m.MarketDataRequests.WithLabelValues(outcome).Inc()
}

// RecordKeysExhausted records a fetch rejected by key rotation.
func (m *Metrics) RecordKeysExhausted() {
	m.APIKeysExhausted.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
