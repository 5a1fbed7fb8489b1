package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

func TestStartServiceSpan(t *testing.T) {
	tp, recorder := newRecordingTracer()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	id := uuid.New()
	_, span := StartServiceSpan(context.Background(), "network", "clear_arrears",
		SpanAttrNetworkID, id,
		SpanAttrSelected, 3,
		42, "skipped",
	)
	RecordError(span, errors.New("network not found"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "network.clear_arrears", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)

	v, ok := spanAttr(got, SpanAttrNetworkID)
	require.True(t, ok)
	assert.Equal(t, id.String(), v.AsString())
	v, ok = spanAttr(got, SpanAttrSelected)
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())
	assert.Len(t, got.Attributes(), 2)
}

func TestRecordError_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"))
		_, span := StartServiceSpan(context.Background(), "network", "noop")
		RecordError(span, nil)
		span.End()
	})
}
