// Package metrics 카탈로그 동기화와 HTTP API의 Prometheus 지표를 제공합니다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	catalogsync "github.com/darkkaiser/nordexplore/internal/service/catalog/sync"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nordexplore"

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics 애플리케이션 지표 모음입니다. 동기화 작업의 catalogsync.Recorder 역할을 겸합니다.
type Metrics struct {
	registry *prometheus.Registry

	syncItems      *prometheus.CounterVec
	syncOperations *prometheus.CounterVec
	syncDuration   *prometheus.HistogramVec
	syncLastOK     prometheus.Gauge

	rateLookups *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ catalogsync.Recorder = (*Metrics)(nil)

// New 새 레지스트리에 지표를 등록합니다. withRuntime이 true이면 Go 런타임과 프로세스 지표도 함께 등록합니다.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: reg,

		syncItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "items_total",
			Help:      "Catalog items processed by sync operations, by operation and outcome.",
		}, []string{"operation", "outcome"}),

		syncOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "operations_total",
			Help:      "Completed sync operations, by operation and result.",
		}, []string{"operation", "result"}),

		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "duration_seconds",
			Help:      "Duration of sync operations.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"operation"}),

		syncLastOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog_sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last incremental sync that did not fail.",
		}),

		rateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exchange_rate",
			Name:      "lookups_total",
			Help:      "Exchange rate lookups, by the source that served them.",
		}, []string{"source"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.syncItems,
		m.syncOperations,
		m.syncDuration,
		m.syncLastOK,
		m.rateLookups,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Registry 지표가 등록된 레지스트리를 반환합니다.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 엔드포인트 핸들러를 반환합니다.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ItemProcessed(op catalogsync.Operation, outcome catalogsync.Outcome) {
	m.syncItems.WithLabelValues(string(op), string(outcome)).Inc()
}

func (m *Metrics) OperationCompleted(op catalogsync.Operation, elapsed time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	m.syncOperations.WithLabelValues(string(op), result).Inc()
	m.syncDuration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

func (m *Metrics) SyncSucceeded(at time.Time) {
	m.syncLastOK.Set(float64(at.Unix()))
}

// ObserveRateLookup 환율 조회가 어느 출처(live, cache, fallback)에서 처리되었는지 기록합니다.
func (m *Metrics) ObserveRateLookup(source string) {
	m.rateLookups.WithLabelValues(source).Inc()
}

// ObserveHTTPRequest HTTP 요청 하나의 결과를 기록합니다. route는 경로 패턴(예: /admin/tours)입니다.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
