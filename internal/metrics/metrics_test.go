package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNewWithRegistry tests that independent registries do not collide
func TestNewWithRegistry(t *testing.T) {
	first := NewWithRegistry(prometheus.NewRegistry())
	second := NewWithRegistry(prometheus.NewRegistry())

	first.ProviderFallbacksTotal.Inc()
	first.ProviderFallbacksTotal.Inc()
	second.ProviderFallbacksTotal.Inc()

	if got := testutil.ToFloat64(first.ProviderFallbacksTotal); got != 2 {
		t.Errorf("expected 2 fallbacks on first registry, got %v", got)
	}
	if got := testutil.ToFloat64(second.ProviderFallbacksTotal); got != 1 {
		t.Errorf("expected 1 fallback on second registry, got %v", got)
	}
}

// TestLabels tests that labelled vectors accept the documented labels
func TestLabels(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ProviderLookupsTotal.WithLabelValues("0", "success").Inc()
	m.StorefrontResolutionsTotal.WithLabelValues("mapped").Inc()
	m.MappingQueriesTotal.WithLabelValues("found").Inc()

	if got := testutil.ToFloat64(m.ProviderLookupsTotal.WithLabelValues("0", "success")); got != 1 {
		t.Errorf("expected 1 provider lookup, got %v", got)
	}
	if got := testutil.ToFloat64(m.StorefrontResolutionsTotal.WithLabelValues("mapped")); got != 1 {
		t.Errorf("expected 1 mapped resolution, got %v", got)
	}
}
