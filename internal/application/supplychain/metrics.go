package supplychain

import (
	"context"

	"github.com/supplynet/backend/internal/infrastructure/telemetry"
)

// Metrics receives business events worth counting. The telemetry package
// provides the OpenTelemetry implementation.
type Metrics interface {
	RecordNetworkWrite(ctx context.Context, operation string)
	RecordHierarchyRejected(ctx context.Context, reason string)
	RecordArrearsCleared(ctx context.Context, networks int64)
}

type noopMetrics struct{}

func (noopMetrics) RecordNetworkWrite(context.Context, string) {}
func (noopMetrics) RecordHierarchyRejected(context.Context, string) {}
func (noopMetrics) RecordArrearsCleared(context.Context, int64) {}

// NoopMetrics discards every event.
var NoopMetrics Metrics = noopMetrics{}

var _ Metrics = (*telemetry.SupplyChainMetrics)(nil)
