package runstore

import "github.com/deepnoodle-ai/triage"

// Report is the persisted form of a completed run: the run itself plus
// per-dimension accuracy tallies over the results that had ground truth.
type Report struct {
	Run *triage.ProcessingRun `json:"run"`

	CategoryAccuracy   *DimensionAccuracy `json:"category_accuracy,omitempty"`
	RoutingAccuracy    *DimensionAccuracy `json:"routing_accuracy,omitempty"`
	ResolutionAccuracy *DimensionAccuracy `json:"resolution_accuracy,omitempty"`
}

// DimensionAccuracy tallies one dimension's evaluated predictions.
type DimensionAccuracy struct {
	Evaluated int     `json:"evaluated"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

// BuildReport computes accuracy tallies for a run. Dimensions with no
// evaluated results are omitted.
func BuildReport(run *triage.ProcessingRun) *Report {
	report := &Report{Run: run}
	report.CategoryAccuracy = tally(run.Results, func(r *triage.ProcessingResult) *bool { return r.CategoryCorrect })
	report.RoutingAccuracy = tally(run.Results, func(r *triage.ProcessingResult) *bool { return r.RoutingCorrect })
	report.ResolutionAccuracy = tally(run.Results, func(r *triage.ProcessingResult) *bool { return r.ResolutionCorrect })
	return report
}

func tally(results []*triage.ProcessingResult, verdict func(*triage.ProcessingResult) *bool) *DimensionAccuracy {
	acc := &DimensionAccuracy{}
	for _, result := range results {
		v := verdict(result)
		if v == nil {
			continue
		}
		acc.Evaluated++
		if *v {
			acc.Correct++
		}
	}
	if acc.Evaluated == 0 {
		return nil
	}
	acc.Accuracy = float64(acc.Correct) / float64(acc.Evaluated)
	return acc
}
