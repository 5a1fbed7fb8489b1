package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// SupplyChainMetrics counts network writes, hierarchy rejections and cleared
// arrears.
type SupplyChainMetrics struct {
	networkWrites        *Counter
	hierarchyRejections  *Counter
	arrearsClearedTotal  *Counter
	arrearsClearBatchLen *Histogram
}

// NewSupplyChainMetrics creates the instruments on meter.
func NewSupplyChainMetrics(meter metric.Meter) (*SupplyChainMetrics, error) {
	writes, err := NewCounter(meter,
		"supplynet_network_writes_total",
		"Network records written, by operation",
		"{network}")
	if err != nil {
		return nil, err
	}
	rejections, err := NewCounter(meter,
		"supplynet_hierarchy_rejections_total",
		"Network writes refused by the hierarchy depth check, by reason",
		"{network}")
	if err != nil {
		return nil, err
	}
	cleared, err := NewCounter(meter,
		"supplynet_arrears_cleared_total",
		"Networks whose arrears were set to zero by the bulk action",
		"{network}")
	if err != nil {
		return nil, err
	}
	batch, err := NewHistogram(meter, HistogramOpts{
		Name:        "supplynet_arrears_clear_batch_size",
		Description: "Networks affected per clear arrears action",
		Unit:        "{network}",
		Boundaries:  []float64{1, 5, 10, 25, 50, 100, 500},
	})
	if err != nil {
		return nil, err
	}

	return &SupplyChainMetrics{
		networkWrites:        writes,
		hierarchyRejections:  rejections,
		arrearsClearedTotal:  cleared,
		arrearsClearBatchLen: batch,
	}, nil
}

func (m *SupplyChainMetrics) RecordNetworkWrite(ctx context.Context, operation string) {
	m.networkWrites.Inc(ctx, AttrOperation.String(operation))
}

func (m *SupplyChainMetrics) RecordHierarchyRejected(ctx context.Context, reason string) {
	m.hierarchyRejections.Inc(ctx, AttrReason.String(reason))
}

func (m *SupplyChainMetrics) RecordArrearsCleared(ctx context.Context, networks int64) {
	m.arrearsClearedTotal.Add(ctx, networks)
	m.arrearsClearBatchLen.Record(ctx, float64(networks))
}
