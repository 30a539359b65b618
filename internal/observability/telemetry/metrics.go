package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dialogue metrics
	VoiceIntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_intents_total",
		Help: "Voice intents handled, by intent and outcome",
	}, []string{"intent", "outcome"})

	VoiceTurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_turn_duration_seconds",
		Help:    "Duration of one dialogue turn",
		Buckets: prometheus.DefBuckets,
	})

	// Upstream movie manager metrics
	MovieManagerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviemanager_requests_total",
		Help: "Movie manager API calls, by operation and status",
	}, []string{"op", "status"})

	MovieManagerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moviemanager_request_duration_seconds",
		Help:    "Movie manager API call latency, by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	// Infrastructure metrics
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_clients",
		Help: "Connected websocket event clients",
	})
)
