package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSetProgressUpdatesGauge(t *testing.T) {
	SetProgress(0.42)
	require.InDelta(t, 0.42, testutil.ToFloat64(jobProgress), 1e-9)
}

func TestSetStateUpdatesGauge(t *testing.T) {
	SetState(3)
	require.Equal(t, float64(3), testutil.ToFloat64(jobState))
}

func TestRecordOutcomeIncrementsLabeledCounter(t *testing.T) {
	before := testutil.ToFloat64(jobOutcomes.WithLabelValues("success"))
	RecordOutcome("success")
	require.Equal(t, before+1, testutil.ToFloat64(jobOutcomes.WithLabelValues("success")))
}
