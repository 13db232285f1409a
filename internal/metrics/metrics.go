// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordRegistration()
	RecordTicketValidation(valid bool)
	RecordInvoiceIssued()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess     prometheus.Counter
	loginFail        *prometheus.CounterVec
	registrations    prometheus.Counter
	ticketValidation *prometheus.CounterVec
	invoicesIssued   prometheus.Counter
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturador_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturador_login_fail_total",
			Help: "失敗理由別のログイン失敗数",
		}, []string{"reason"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturador_registration_total",
			Help: "アカウント登録完了の合計数",
		}),
		ticketValidation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturador_ticket_validation_total",
			Help: "結果別のチケット照合数",
		}, []string{"result"}),
		invoicesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturador_invoice_issued_total",
			Help: "発行された請求書の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturador_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.registrations,
		c.ticketValidation,
		c.invoicesIssued,
		c.httpStatus,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure は失敗理由付きでログイン失敗を記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordRegistration はアカウント登録完了を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordTicketValidation はチケット照合の結果を記録する。
func (c *Collector) RecordTicketValidation(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	c.ticketValidation.WithLabelValues(result).Inc()
}

// RecordInvoiceIssued は請求書発行を記録する。
func (c *Collector) RecordInvoiceIssued() {
	c.invoicesIssued.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
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

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
