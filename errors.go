package triage

import "errors"

var (
	// ErrSkillNotFound indicates a skill lookup by name missed the
	// registry's active set.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrProposalNotFound indicates a proposal lookup by id missed, which
	// includes proposals that were already approved or rejected.
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrGatewayUnavailable indicates the inference gateway could not be
	// reached. Callers degrade to defaults rather than aborting a batch.
	ErrGatewayUnavailable = errors.New("inference gateway unavailable")
)
