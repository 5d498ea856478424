/*
Package metrics Prometheus 指标

ServerMetrics 记录 HTTP 请求量与延迟；DomainMetrics 订阅领域事件，
记录收款、状态迁移与销售转换，并由应用层直接上报收款拒绝原因。
*/
package metrics

import (
	"net/http"

	"aquadash/domain/order"
	"aquadash/domain/sale"
	"aquadash/domain/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aquadash"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// DomainMetrics business counters
type DomainMetrics struct {
	Payments          *prometheus.CounterVec
	PaymentAmount     prometheus.Counter
	PaymentRejections *prometheus.CounterVec
	StatusChanges     *prometheus.CounterVec
	Sales             *prometheus.CounterVec
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	m := &DomainMetrics{
		Payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Payments accepted, by method.",
		}, []string{"method"}),
		PaymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_amount_total",
			Help:      "Sum of accepted payment amounts.",
		}),
		PaymentRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_rejections_total",
			Help:      "Payments rejected by the payment policy, by reason.",
		}, []string{"reason"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Order status transitions, by target status.",
		}, []string{"to"}),
		Sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Sales created, by origin.",
		}, []string{"origin"}),
	}
	reg.MustRegister(m.Payments, m.PaymentAmount, m.PaymentRejections, m.StatusChanges, m.Sales)
	return m
}

// ObservePaymentRejected nil-safe
func (m *DomainMetrics) ObservePaymentRejected(reason order.RejectionReason) {
	if m == nil {
		return
	}
	m.PaymentRejections.WithLabelValues(string(reason)).Inc()
}

// Name implements shared.EventHandler
func (m *DomainMetrics) Name() string { return "domain-metrics" }

// Handle implements shared.EventHandler; subscribe it on shared.WildcardEvent
func (m *DomainMetrics) Handle(event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.PaymentRecordedEvent:
		m.Payments.WithLabelValues(string(e.Method())).Inc()
		m.PaymentAmount.Add(e.Amount().Float64())
	case *order.OrderStatusChangedEvent:
		m.StatusChanges.WithLabelValues(string(e.To())).Inc()
	case *sale.SaleCreatedEvent:
		m.Sales.WithLabelValues(string(e.Origin())).Inc()
	}
	return nil
}

var _ shared.EventHandler = (*DomainMetrics)(nil)

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
