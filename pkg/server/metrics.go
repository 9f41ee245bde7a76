package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopqa_chat_requests_total",
			Help: "Total number of chat requests by HTTP status code",
		},
		[]string{"code"},
	)
	chatDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shopqa_chat_duration_seconds",
			Help:    "Duration of answered chat requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
	)
	cachedAnswers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopqa_cached_answers_total",
			Help: "Total number of chat requests served from the answer cache",
		},
	)
)

func init() {
	prometheus.MustRegister(chatRequests, chatDuration, cachedAnswers)
}

func observeStatus(code int) {
	chatRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}
