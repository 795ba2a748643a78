// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ワーカーやサービス層から利用する。
type MetricsCollector interface {
	RecordEntryCreated()
	RecordGoalCompletion()
	RecordReminderSent()
	RecordSessionsCleaned(count int64)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	entriesCreated  prometheus.Counter
	goalCompletions prometheus.Counter
	remindersSent   prometheus.Counter
	sessionsCleaned prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		entriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_entries_created_total",
			Help: "作成された気分記録の合計数",
		}),
		goalCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_goal_completions_total",
			Help: "記録された目標達成の合計数",
		}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_reminders_sent_total",
			Help: "送信されたリマインダーの合計数",
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodlog_sessions_cleaned_total",
			Help: "削除された期限切れセッションの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moodlog_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodlog_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.entriesCreated,
		c.goalCompletions,
		c.remindersSent,
		c.sessionsCleaned,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordEntryCreated は気分記録の新規作成を記録する。
func (c *Collector) RecordEntryCreated() {
	c.entriesCreated.Inc()
}

// RecordGoalCompletion は目標達成の記録を記録する。
func (c *Collector) RecordGoalCompletion() {
	c.goalCompletions.Inc()
}

// RecordReminderSent はリマインダー送信を記録する。
func (c *Collector) RecordReminderSent() {
	c.remindersSent.Inc()
}

// RecordSessionsCleaned は削除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	c.sessionsCleaned.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
