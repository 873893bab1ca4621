// Package learning converts clusters of prediction failures into new
// candidate skills and manages their approval lifecycle. Proposals are
// guidance, not rules: the synthesis prompt and template steer generated
// content toward contextual insights, because the prediction engine treats
// learned skills as secondary evidence.
package learning

import (
	"context"
	"time"
)

// Status is the lifecycle state of a proposed skill. Approved and
// rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ProposedSkill is a candidate skill synthesized from clustered failures,
// awaiting human review.
type ProposedSkill struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	TriggerPattern string    `json:"trigger_pattern"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	SourceTickets  []string  `json:"source_tickets"`
	Status         Status    `json:"status"`
}

// Repository persists proposals, one unit per proposal, so a corrupt unit
// during bulk load skips only itself.
type Repository interface {
	Get(ctx context.Context, id string) (*ProposedSkill, error)
	Put(ctx context.Context, proposal *ProposedSkill) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*ProposedSkill, error)
}
