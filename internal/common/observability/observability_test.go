package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/prometheus"
)

func TestNilObservabilityIsSafe(t *testing.T) {
	var o *Observability
	ctx, span := o.StartSpan(context.Background(), "rank")
	require.NotNil(t, ctx)
	span.End()

	o.RecordJobProcessed(ctx, "recommend-jobs", "success")
	o.RecordJobDuration(ctx, "recommend-jobs", time.Millisecond, "success")
	o.RecordRecommendation(ctx, 3, false)
	o.Shutdown()
}

func TestRecordRecommendationExports(t *testing.T) {
	reg := promclient.NewRegistry()
	o := New("job-recommender-test", prometheus.WithRegisterer(reg))
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordRecommendation(ctx, 7, false)
	o.RecordJobProcessed(ctx, "recommend-jobs", "success")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"recommendations_served_total",
		"recommendations_result_size",
		"jobs_processed_total",
	} {
		assert.True(t, names[want], "missing %s in %v", want, names)
	}
	for name := range names {
		assert.False(t, strings.Contains(name, "."), "metric %s must not contain dots", name)
	}
}
