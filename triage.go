// Package triage defines the core types for the self-improving ticket
// triage pipeline: tickets flow through the prediction engine, judged
// results feed the learning synthesizer, and approved proposals flow back
// into the skill registry that shapes future predictions.
package triage

import (
	"context"
	"time"
)

// Ticket is a single support ticket within a processing run. The actual_*
// fields carry ground truth and are present only for supervised evaluation.
// A Ticket is immutable once created.
type Ticket struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`

	ActualCategory   string `json:"actual_category,omitempty"`
	ActualRouting    string `json:"actual_routing,omitempty"`
	ActualResolution string `json:"actual_resolution,omitempty"`
}

// Prediction holds the model's output for one ticket. Exactly one
// Prediction is produced per ticket per processing attempt.
type Prediction struct {
	TicketID            string             `json:"ticket_id"`
	PredictedCategory   string             `json:"predicted_category"`
	PredictedRouting    string             `json:"predicted_routing"`
	PredictedResolution string             `json:"predicted_resolution"`
	ConfidenceScores    map[string]float64 `json:"confidence_scores,omitempty"`
	Reasoning           string             `json:"reasoning,omitempty"`
}

// ProcessingResult pairs a Ticket with its Prediction and the comparator's
// verdict per dimension. A nil boolean means no ground truth was available
// for that dimension; once ground truth exists the verdict is always true
// or false, never nil.
type ProcessingResult struct {
	Ticket     *Ticket     `json:"ticket"`
	Prediction *Prediction `json:"prediction"`

	CategoryCorrect   *bool `json:"category_correct,omitempty"`
	RoutingCorrect    *bool `json:"routing_correct,omitempty"`
	ResolutionCorrect *bool `json:"resolution_correct,omitempty"`
}

// ProcessingRun is one batch of tickets, their results, and the ids of any
// skill proposals the batch generated. It is the unit of input and output
// for a single aggregation cycle.
type ProcessingRun struct {
	ID             string              `json:"id"`
	StartedAt      time.Time           `json:"started_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	TotalTickets   int                 `json:"total_tickets"`
	Results        []*ProcessingResult `json:"results"`
	ProposedSkills []string            `json:"proposed_skills,omitempty"`
}

// RunStore is the collaborator-owned persistence boundary for processing
// runs. The core only depends on these two operations.
type RunStore interface {
	// ReadTicketsForRun returns the tickets belonging to a run, in the
	// order they should be processed.
	ReadTicketsForRun(ctx context.Context, runID string) ([]*Ticket, error)

	// WriteReportForRun persists the completed run.
	WriteReportForRun(ctx context.Context, runID string, run *ProcessingRun) error
}
