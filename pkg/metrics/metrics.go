package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gateway"

// アップストリーム呼び出しの結果ラベル。
const (
	// ResultSuccess はアップストリーム呼び出しが成功したことを表す。
	ResultSuccess = "success"
	// ResultError はアップストリーム呼び出しが失敗したことを表す。
	ResultError = "error"
)

// unmatchedRoute はどのルートにも一致しなかったリクエストのラベル。
const unmatchedRoute = "unmatched"

// Metrics はサービスのメトリクスをまとめたもの。
// 独自のレジストリを持つため、テストごとに生成しても衝突しない。
type Metrics struct {
	// registry はメトリクスの登録先。
	registry *prometheus.Registry
	// httpRequests はルート・ステータスコードごとの受信リクエスト数。
	httpRequests *prometheus.CounterVec
	// upstreamRequests はリクエスト種別・結果ごとのアップストリーム呼び出し数。
	upstreamRequests *prometheus.CounterVec
	// upstreamDuration はリクエスト種別ごとのアップストリーム呼び出し時間。
	upstreamDuration *prometheus.HistogramVec
}

// New は新しいMetricsを生成し、コレクターを登録する。
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of inbound HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Number of calls to the upstream info API by request type and result.",
		}, []string{"type", "result"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of calls to the upstream info API by request type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.upstreamRequests,
		m.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler はメトリクスをPrometheus形式で返すHTTPハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveUpstream はアップストリーム呼び出し1回分の結果を記録する。
func (m *Metrics) ObserveUpstream(infoType string, err error, elapsed time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.upstreamRequests.WithLabelValues(infoType, result).Inc()
	m.upstreamDuration.WithLabelValues(infoType).Observe(elapsed.Seconds())
}

// Middleware は受信リクエストをルート・ステータスコードごとに数えるGinミドルウェアを返す。
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
