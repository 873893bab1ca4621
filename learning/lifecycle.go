package learning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deepnoodle-ai/triage/slogger"
)

// LifecycleOptions configures a Lifecycle manager.
type LifecycleOptions struct {
	Repository Repository

	// PublishDir is where approved skill documents are written. It should
	// be the skill registry's learned directory so published skills become
	// discoverable.
	PublishDir string

	Logger slogger.Logger
}

// Lifecycle manages the pending → approved/rejected state machine for
// proposals. Both transitions are terminal: the pending record is removed,
// and a second transition attempt on the same id reports not-found rather
// than silently re-applying.
type Lifecycle struct {
	repository Repository
	publishDir string
	logger     slogger.Logger
}

// NewLifecycle creates a lifecycle manager.
func NewLifecycle(opts LifecycleOptions) (*Lifecycle, error) {
	if opts.Repository == nil {
		return nil, fmt.Errorf("lifecycle requires a repository")
	}
	if opts.PublishDir == "" {
		return nil, fmt.Errorf("lifecycle requires a publish directory")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDevNullLogger()
	}
	return &Lifecycle{
		repository: opts.Repository,
		publishDir: opts.PublishDir,
		logger:     logger,
	}, nil
}

// ListPending returns all proposals awaiting review.
func (l *Lifecycle) ListPending(ctx context.Context) ([]*ProposedSkill, error) {
	proposals, err := l.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*ProposedSkill, 0, len(proposals))
	for _, p := range proposals {
		if p.Status == StatusPending {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// Approve publishes a pending proposal into the registry-visible skill
// set and removes the pending record. Returns triage.ErrProposalNotFound
// when the id is unknown or already transitioned.
func (l *Lifecycle) Approve(ctx context.Context, id string) (*ProposedSkill, error) {
	proposal, err := l.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(l.publishDir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(l.publishDir, fmt.Sprintf("approved_%s.md", proposal.ID))
	if err := os.WriteFile(path, []byte(proposal.Content), 0644); err != nil {
		return nil, fmt.Errorf("publishing approved skill: %w", err)
	}

	if err := l.repository.Delete(ctx, id); err != nil {
		return nil, err
	}
	proposal.Status = StatusApproved
	l.logger.Info("approved skill proposal", "id", id, "name", proposal.Name, "path", path)
	return proposal, nil
}

// Reject removes a pending proposal entirely; it is never resurfaced.
// Returns triage.ErrProposalNotFound when the id is unknown or already
// transitioned.
func (l *Lifecycle) Reject(ctx context.Context, id string) error {
	proposal, err := l.repository.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := l.repository.Delete(ctx, id); err != nil {
		return err
	}
	l.logger.Info("rejected skill proposal", "id", id, "name", proposal.Name)
	return nil
}
