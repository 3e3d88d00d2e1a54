package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 요청 총 수
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP 요청 처리 시간 (히스토그램)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// 현재 처리 중인 HTTP 요청 수
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// 번역 요청 수 (Redis 캐시 적중 여부)
	translateRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translate_requests_total",
			Help: "Total number of translation lookups",
		},
		[]string{"cache_hit"},
	)

	// RAG 웹훅 호출 수 (시도 단위)
	ragWebhookCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_webhook_calls_total",
			Help: "Total number of RAG webhook call attempts",
		},
		[]string{"status"},
	)

	// RAG 웹훅 응답 시간
	ragWebhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rag_webhook_duration_seconds",
			Help:    "RAG webhook call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	// 변수명 제안 응답 출처 (webhook, cache, fallback)
	suggestionResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_suggestion_responses_total",
			Help: "Total number of suggestion responses by source",
		},
		[]string{"source"},
	)

	// 검증 규칙별 이슈 수
	validationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_issues_total",
			Help: "Total number of naming issues reported, by rule",
		},
		[]string{"rule", "severity"},
	)

	// 요청 제한으로 거부된 요청 수
	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"action"},
	)
)

// MetricsMiddleware는 HTTP 요청에 대한 Prometheus 메트릭을 수집합니다.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		// 라우트 패턴 사용 (/api/dictionary/:id)
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordTranslate는 번역 요청 메트릭을 기록합니다.
func RecordTranslate(cacheHit bool) {
	translateRequestsTotal.WithLabelValues(strconv.FormatBool(cacheHit)).Inc()
}

// RecordRAGWebhookCall은 RAG 웹훅 호출 메트릭을 기록합니다.
func RecordRAGWebhookCall(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	ragWebhookCallsTotal.WithLabelValues(status).Inc()
	ragWebhookDuration.Observe(duration.Seconds())
}

// RecordSuggestionSource는 변수명 제안 응답 출처를 기록합니다.
func RecordSuggestionSource(source string) {
	suggestionResponsesTotal.WithLabelValues(source).Inc()
}

// RecordValidationIssue는 검증 이슈를 규칙별로 기록합니다.
func RecordValidationIssue(rule, severity string) {
	validationIssuesTotal.WithLabelValues(rule, severity).Inc()
}

func recordRateLimited(action string) {
	rateLimitedTotal.WithLabelValues(action).Inc()
}
