package runstore

import (
	"testing"

	"github.com/deepnoodle-ai/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verdictResult(category, routing, resolution *bool) *triage.ProcessingResult {
	return &triage.ProcessingResult{
		Ticket:            &triage.Ticket{ID: "TKT"},
		Prediction:        &triage.Prediction{TicketID: "TKT"},
		CategoryCorrect:   category,
		RoutingCorrect:    routing,
		ResolutionCorrect: resolution,
	}
}

func TestBuildReport(t *testing.T) {
	yes, no := true, false
	run := &triage.ProcessingRun{
		ID: "run-1",
		Results: []*triage.ProcessingResult{
			verdictResult(&yes, &yes, nil),
			verdictResult(&yes, &no, nil),
			verdictResult(&no, nil, nil),
			verdictResult(nil, nil, nil),
		},
	}
	report := BuildReport(run)

	require.NotNil(t, report.CategoryAccuracy)
	assert.Equal(t, 3, report.CategoryAccuracy.Evaluated)
	assert.Equal(t, 2, report.CategoryAccuracy.Correct)
	assert.InDelta(t, 2.0/3.0, report.CategoryAccuracy.Accuracy, 1e-9)

	require.NotNil(t, report.RoutingAccuracy)
	assert.Equal(t, 2, report.RoutingAccuracy.Evaluated)
	assert.Equal(t, 1, report.RoutingAccuracy.Correct)

	// No resolution had ground truth, so the dimension is omitted.
	assert.Nil(t, report.ResolutionAccuracy)
}

func TestBuildReportEmptyRun(t *testing.T) {
	report := BuildReport(&triage.ProcessingRun{ID: "empty"})
	assert.Nil(t, report.CategoryAccuracy)
	assert.Nil(t, report.RoutingAccuracy)
	assert.Nil(t, report.ResolutionAccuracy)
}
