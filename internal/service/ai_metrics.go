package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки status.
const (
	aiStatusSuccess        = "success"
	aiStatusError          = "error"
	aiStatusErrorAuth      = "error_auth"
	aiStatusErrorEmpty     = "error_empty_response"
	aiStatusErrorTimeout   = "error_timeout"
	aiStatusEstimatedUsage = "success_estimated_usage"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jrc_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"provider", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jrc_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jrc_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"provider", "model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jrc_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"provider", "model"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jrc_ai_total_tokens",
			Help:    "Histogram of total token counts (prompt + completion).",
			Buckets: prometheus.LinearBuckets(350, 350, 20),
		},
		[]string{"provider", "model"},
	)
)

func recordAIRequest(provider, model, status string) {
	aiRequestsTotal.WithLabelValues(provider, model, status).Inc()
}

func observeAIDuration(provider, model string, d time.Duration) {
	aiRequestDuration.WithLabelValues(provider, model).Observe(d.Seconds())
}

func observeAIUsage(provider, model string, usage UsageInfo) {
	if usage.TotalTokens <= 0 {
		return
	}
	aiPromptTokens.WithLabelValues(provider, model).Observe(float64(usage.PromptTokens))
	aiCompletionTokens.WithLabelValues(provider, model).Observe(float64(usage.CompletionTokens))
	aiTotalTokens.WithLabelValues(provider, model).Observe(float64(usage.TotalTokens))
}
