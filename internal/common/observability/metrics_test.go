package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_RecordsSpansAndMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	recorder := tracetest.NewSpanRecorder()
	obs := New("cardiochat-test", WithRegisterer(reg), WithSpanProcessor(recorder))
	defer obs.Shutdown()

	ctx, span := obs.StartSpan(context.Background(), "prediction.submit", attribute.String("session.id", "s-1"))
	obs.RecordSubmission(ctx, "success")
	obs.RecordSubmissionDuration(ctx, 120*time.Millisecond, "success")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "prediction.submit", ended[0].Name())

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "submissions_processed")
	assert.Contains(t, joined, "submissions_duration")
}

func TestNoop_DoesNotPanic(t *testing.T) {
	obs := NewNoop()
	assert.NotPanics(t, func() {
		ctx, span := obs.StartSpan(context.Background(), "x")
		obs.RecordSubmission(ctx, "success")
		obs.RecordSubmissionDuration(ctx, time.Second, "success")
		span.End()
		obs.Shutdown()
	})
}
