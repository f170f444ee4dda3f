package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestEngineMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.ObserveCompute(50 * time.Microsecond)
	m.IncCacheHit()
	m.IncCacheMiss()
	m.IncUpdate("QUANTITY", true)
	m.IncUpdate("PAPER_STOCK", false)
	m.ObserveFinalPrice(1222.5)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pricing_invalid_contributions_total", "module", "PAPER_STOCK"); err != nil {
		t.Fatalf("fetch invalid: %v", err)
	} else if got != 1 {
		t.Fatalf("expected invalid=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pricing_contribution_updates_total", "module", "QUANTITY"); err != nil {
		t.Fatalf("fetch updates: %v", err)
	} else if got != 1 {
		t.Fatalf("expected updates=1, got %f", got)
	}

	if _, err := fetchCounterValue(mfs, "pricing_invalid_contributions_total", "module", "QUANTITY"); err == nil {
		t.Fatalf("valid update must not count as invalid")
	}

	if mf := findMetricFamily(mfs, "pricing_context_recomputes_total"); mf == nil || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one recompute")
	}
}

func TestNilEngineMetricsIsNoop(t *testing.T) {
	var m *EngineMetrics
	m.ObserveCompute(time.Millisecond)
	m.IncCacheHit()
	m.IncCacheMiss()
	m.IncUpdate("", false)
	m.ObserveFinalPrice(1)
	m.IncSession()

	if NewEngineMetrics(nil) != nil {
		t.Fatalf("expected nil metrics without registerer")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
