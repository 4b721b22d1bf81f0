package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStagingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStagingMetrics(reg)

	m.IncCartOp("cart", "add", "ok")
	m.IncCartOp("cart", "add", "duplicate")
	m.IncSubmission("sell", "success")
	m.IncQuoteFailure("cartBuyBack")

	if got := testutil.ToFloat64(m.cartOps.WithLabelValues("cart", "add", "ok")); got != 1 {
		t.Fatalf("expected 1 ok add, got %v", got)
	}
	if got := testutil.ToFloat64(m.cartOps.WithLabelValues("cart", "add", "duplicate")); got != 1 {
		t.Fatalf("expected 1 duplicate add, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("sell", "success")); got != 1 {
		t.Fatalf("expected 1 sell success, got %v", got)
	}
	if got := testutil.ToFloat64(m.quoteFailures.WithLabelValues("cartBuyBack")); got != 1 {
		t.Fatalf("expected 1 quote failure, got %v", got)
	}
}

func TestStagingMetricsNilSafe(t *testing.T) {
	var m *StagingMetrics
	m.IncCartOp("cart", "add", "ok")
	m.IncSubmission("sell", "failure")
	m.IncQuoteFailure("cartBuyBack")

	unregistered := NewStagingMetrics(nil)
	unregistered.IncCartOp("", "", "")
}
