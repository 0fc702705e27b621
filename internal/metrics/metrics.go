// Package metrics содержит prometheus-метрики EcoTrack:
// хранилище, неуспешные записи docstore, бот и фоновые задачи.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	storageOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecotrack_storage_ops_total",
		Help: "Total number of key-value substrate operations.",
	}, []string{"backend", "operation", "result"})

	storageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecotrack_storage_latency_seconds",
		Help:    "Histogram of key-value substrate operation latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	writeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecotrack_docstore_write_failures_total",
		Help: "Total number of document store writes that were not persisted.",
	}, []string{"collection"})

	botCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecotrack_bot_commands_total",
		Help: "Total number of bot commands routed.",
	}, []string{"command"})

	botRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecotrack_bot_rate_limited_total",
		Help: "Total number of updates dropped by the per-user rate limiter.",
	})

	botPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecotrack_bot_panics_total",
		Help: "Total number of recovered panics in update handlers.",
	})

	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecotrack_job_runs_total",
		Help: "Total number of scheduled job runs.",
	}, []string{"job", "result"})

	leaderboardEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecotrack_leaderboard_entries",
		Help: "Number of users in the last recomputed leaderboard snapshot.",
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveStorage фиксирует длительность и результат операции с хранилищем.
func ObserveStorage(backend, operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storageOpsTotal.WithLabelValues(backend, operation, result).Inc()
	storageLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}

// WriteFailed увеличивает счётчик неуспешных записей коллекции.
func WriteFailed(collection string) {
	writeFailuresTotal.WithLabelValues(collection).Inc()
}

// CommandRouted считает команды, дошедшие до маршрутизатора бота.
func CommandRouted(command string) {
	botCommandsTotal.WithLabelValues(command).Inc()
}

// RateLimited считает апдейты, отброшенные ограничителем частоты.
func RateLimited() {
	botRateLimitedTotal.Inc()
}

// PanicRecovered считает перехваченные паники обработчиков.
func PanicRecovered() {
	botPanicsTotal.Inc()
}

// JobRun фиксирует запуск фоновой задачи.
func JobRun(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	jobRunsTotal.WithLabelValues(job, result).Inc()
}

// SetLeaderboardSize публикует размер последнего снимка рейтинга.
func SetLeaderboardSize(n int) {
	leaderboardEntries.Set(float64(n))
}
