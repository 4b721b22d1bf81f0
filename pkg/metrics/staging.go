package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StagingMetrics records cart staging and invoice submission activity.
type StagingMetrics struct {
	cartOps       *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	quoteFailures *prometheus.CounterVec
}

// NewStagingMetrics registers the staging metrics on the provided registerer.
func NewStagingMetrics(reg prometheus.Registerer) *StagingMetrics {
	if reg == nil {
		return &StagingMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart staging operations by cart key, operation and result.",
	}, []string{"cart", "op", "result"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_submissions_total",
		Help: "Invoice submissions by kind and result.",
	}, []string{"kind", "result"})
	quoteFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buyback_quote_failures_total",
		Help: "Per-item buy-back quote fetch failures.",
	}, []string{"cart"})
	reg.MustRegister(cartOps, submissions, quoteFailures)
	return &StagingMetrics{
		cartOps:       cartOps,
		submissions:   submissions,
		quoteFailures: quoteFailures,
	}
}

// IncCartOp increments the cart operation counter.
func (m *StagingMetrics) IncCartOp(cart, op, result string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(cart), normalizeLabel(op), normalizeLabel(result)).Inc()
}

// IncSubmission increments the submission counter for the invoice kind.
func (m *StagingMetrics) IncSubmission(kind, result string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(kind), normalizeLabel(result)).Inc()
}

// IncQuoteFailure increments the quote failure counter for the cart.
func (m *StagingMetrics) IncQuoteFailure(cart string) {
	if m == nil || m.quoteFailures == nil {
		return
	}
	m.quoteFailures.WithLabelValues(normalizeLabel(cart)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
