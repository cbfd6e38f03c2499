package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bill_search_requests_total",
		Help: "Total bill search requests",
	})
	SearchResultsCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bill_search_results_count",
		Help:    "Number of bills returned per search",
		Buckets: []float64{0, 1, 2, 4, 6, 8, 12},
	})
	SearchDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bill_search_duration_seconds",
		Help:    "End-to-end search pipeline duration",
		Buckets: prometheus.DefBuckets,
	})
	SummaryFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bill_summary_fallbacks_total",
		Help: "Summaries degraded to truncated original text",
	})
	DetailCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bill_detail_cache_total",
		Help: "Bill detail cache lookups",
	}, []string{"outcome"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Outbound request duration",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Outbound request count",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "LLM generation duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Tokens used by LLM calls",
	}, []string{"model", "type"})

	EmbeddingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "embedding_duration_seconds",
		Help:    "Embedding request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})
)

// MustRegister registers all collectors.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SearchRequestsTotal,
		SearchResultsCount,
		SearchDurationSeconds,
		SummaryFallbacksTotal,
		DetailCacheHitsTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
		EmbeddingDuration,
	)
}

// StartServer runs an HTTP server exposing /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}

// ObserveNetworkRequest records the duration and status of an outbound call.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration records LLM generation duration and token usage.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// ObserveEmbedding records an embeddings request duration.
func ObserveEmbedding(model string, duration time.Duration) {
	if model == "" {
		model = "unknown"
	}
	EmbeddingDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// IncDetailCache records a detail cache hit or miss.
func IncDetailCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	DetailCacheHitsTotal.WithLabelValues(outcome).Inc()
}
