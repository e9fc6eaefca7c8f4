package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle transitions.
type OrderMetrics struct {
	placed    prometheus.Counter
	confirmed *prometheus.CounterVec
	completed *prometheus.CounterVec
	expired   prometheus.Counter
	reports   prometheus.Counter
}

// NewOrderMetrics registers the order lifecycle metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders accepted at placement.",
	})
	confirmed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Orders confirmed, partitioned by payment mode.",
	}, []string{"payment_mode"})
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Orders completed at pickup, partitioned by lateness.",
	}, []string{"late"})
	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_expired_total",
		Help: "Pending orders expired by the sweep job.",
	})
	reports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "customer_reports_total",
		Help: "Abuse reports filed against customers.",
	})
	reg.MustRegister(placed, confirmed, completed, expired, reports)
	return &OrderMetrics{
		placed:    placed,
		confirmed: confirmed,
		completed: completed,
		expired:   expired,
		reports:   reports,
	}
}

// IncPlaced increments the placed-order counter.
func (o *OrderMetrics) IncPlaced() {
	if o == nil || o.placed == nil {
		return
	}
	o.placed.Inc()
}

// IncConfirmed increments the confirmed-order counter for the payment mode.
func (o *OrderMetrics) IncConfirmed(paymentMode string) {
	if o == nil || o.confirmed == nil {
		return
	}
	o.confirmed.WithLabelValues(normalizeLabel(paymentMode)).Inc()
}

// IncCompleted increments the completed-order counter. late is the string
// form of the lateness verdict ("true"/"false").
func (o *OrderMetrics) IncCompleted(late string) {
	if o == nil || o.completed == nil {
		return
	}
	o.completed.WithLabelValues(normalizeLabel(late)).Inc()
}

// IncExpired increments the expired-order counter.
func (o *OrderMetrics) IncExpired() {
	if o == nil || o.expired == nil {
		return
	}
	o.expired.Inc()
}

// IncReport increments the customer report counter.
func (o *OrderMetrics) IncReport() {
	if o == nil || o.reports == nil {
		return
	}
	o.reports.Inc()
}
