package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/extract"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/skill"
	"github.com/deepnoodle-ai/triage/slogger"
	"github.com/google/uuid"
)

const (
	// minFailuresForProposal is the cluster size below which a dimension's
	// failures are considered one-off noise and skipped.
	minFailuresForProposal = 2

	// maxEvidenceExamples caps how many failing results are shown to the
	// model and reproduced in the skill document.
	maxEvidenceExamples = 5

	// maxDisplayNameLength bounds the sanitized proposal name.
	maxDisplayNameLength = 60
)

const synthesisSystemPrompt = `You are an expert at analyzing ITSM ticket processing mistakes.
Identify the patterns that led to incorrect predictions and provide clear rules to prevent similar errors.
Respond with ONLY valid JSON, no markdown formatting.`

// SynthesizerOptions configures a Synthesizer. A nil Temperature means
// the default; zero is a valid explicit setting.
type SynthesizerOptions struct {
	Gateway     llm.LLM
	Model       string
	Repository  Repository
	Logger      slogger.Logger
	MaxTokens   int
	Temperature *float64
}

// Synthesizer groups judged results by failure dimension and asks the
// gateway to extract patterns from each sufficiently large group, turning
// the answer into a pending skill proposal.
type Synthesizer struct {
	gateway     llm.LLM
	model       string
	repository  Repository
	logger      slogger.Logger
	maxTokens   int
	temperature float64
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(opts SynthesizerOptions) (*Synthesizer, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("synthesizer requires a gateway")
	}
	if opts.Repository == nil {
		return nil, fmt.Errorf("synthesizer requires a repository")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDevNullLogger()
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	temperature := 0.3
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	return &Synthesizer{
		gateway:     opts.Gateway,
		model:       opts.Model,
		repository:  opts.Repository,
		logger:      logger,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

// Synthesize analyzes a scored batch and returns new pending proposals,
// at most one per dimension. It must run only after the whole batch has
// been scored, so a proposal can never influence its own evaluation batch.
func (s *Synthesizer) Synthesize(ctx context.Context, results []*triage.ProcessingResult) ([]*ProposedSkill, error) {
	groups := partitionFailures(results)

	s.logger.Info("analyzing batch for failure patterns",
		"results", len(results),
		"category_failures", len(groups[skill.TaskCategorization]),
		"routing_failures", len(groups[skill.TaskRouting]),
		"resolution_failures", len(groups[skill.TaskResolution]))

	var proposals []*ProposedSkill
	for _, dimension := range []skill.TaskType{skill.TaskCategorization, skill.TaskRouting, skill.TaskResolution} {
		failures := groups[dimension]
		if len(failures) < minFailuresForProposal {
			continue
		}
		proposal, err := s.proposeSkill(ctx, dimension, failures)
		if err != nil {
			return proposals, err
		}
		if proposal != nil {
			proposals = append(proposals, proposal)
			s.logger.Info("created skill proposal",
				"id", proposal.ID, "name", proposal.Name, "dimension", dimension)
		}
	}
	return proposals, nil
}

// partitionFailures groups results by dimension. A result joins a group
// only when its verdict is explicitly false; nil means "not evaluated"
// and is excluded.
func partitionFailures(results []*triage.ProcessingResult) map[skill.TaskType][]*triage.ProcessingResult {
	groups := map[skill.TaskType][]*triage.ProcessingResult{}
	for _, result := range results {
		if result.CategoryCorrect != nil && !*result.CategoryCorrect {
			groups[skill.TaskCategorization] = append(groups[skill.TaskCategorization], result)
		}
		if result.RoutingCorrect != nil && !*result.RoutingCorrect {
			groups[skill.TaskRouting] = append(groups[skill.TaskRouting], result)
		}
		if result.ResolutionCorrect != nil && !*result.ResolutionCorrect {
			groups[skill.TaskResolution] = append(groups[skill.TaskResolution], result)
		}
	}
	return groups
}

// proposeSkill runs synthesis for one dimension. A gateway failure or an
// unusable response skips the proposal rather than fabricating one.
func (s *Synthesizer) proposeSkill(ctx context.Context, dimension skill.TaskType, failures []*triage.ProcessingResult) (*ProposedSkill, error) {
	prompt := s.buildSynthesisPrompt(dimension, failures)

	opts := []llm.Option{
		llm.WithMessages(llm.NewUserMessage(prompt)),
		llm.WithSystemPrompt(synthesisSystemPrompt),
		llm.WithTemperature(s.temperature),
		llm.WithMaxTokens(s.maxTokens),
		llm.WithLogger(s.logger),
	}
	if s.model != "" {
		opts = append(opts, llm.WithModel(s.model))
	}

	response, err := s.gateway.Generate(ctx, opts...)
	if err != nil {
		s.logger.Warn("synthesis gateway call failed, skipping proposal",
			"dimension", dimension, "error", err)
		return nil, nil
	}
	data := extract.Object(response.Text)
	if len(data) == 0 {
		s.logger.Warn("no usable synthesis response, skipping proposal",
			"dimension", dimension)
		return nil, nil
	}

	id := fmt.Sprintf("%s-%s", dimension, uuid.NewString()[:8])
	now := time.Now()

	name, description, patterns := extractProposalFields(data, dimension, len(failures))
	displayName := displayName(name, description, patterns, dimension, id)

	content, err := renderSkillDocument(displayName, description, dimension, failures, now)
	if err != nil {
		return nil, fmt.Errorf("rendering skill document: %w", err)
	}

	ticketIDs := make([]string, 0, len(failures))
	for _, result := range failures {
		ticketIDs = append(ticketIDs, result.Ticket.ID)
	}

	trigger := strings.Join(patterns, ", ")
	if trigger == "" {
		trigger = fmt.Sprintf("Similar %s issues", dimension)
	}

	proposal := &ProposedSkill{
		ID:             id,
		Name:           displayName,
		Description:    description,
		TriggerPattern: trigger,
		Content:        content,
		CreatedAt:      now,
		SourceTickets:  ticketIDs,
		Status:         StatusPending,
	}
	if err := s.repository.Put(ctx, proposal); err != nil {
		return nil, fmt.Errorf("persisting proposal: %w", err)
	}
	return proposal, nil
}

// buildSynthesisPrompt formats the failure evidence and the JSON contract
// for the pattern-extraction call.
func (s *Synthesizer) buildSynthesisPrompt(dimension skill.TaskType, failures []*triage.ProcessingResult) string {
	evidence := failures
	if len(evidence) > maxEvidenceExamples {
		evidence = evidence[:maxEvidenceExamples]
	}

	var examples strings.Builder
	for _, result := range evidence {
		ticket := result.Ticket
		var predicted, actual string
		switch dimension {
		case skill.TaskCategorization:
			predicted, actual = result.Prediction.PredictedCategory, ticket.ActualCategory
		case skill.TaskRouting:
			predicted, actual = result.Prediction.PredictedRouting, ticket.ActualRouting
		default:
			predicted, actual = result.Prediction.PredictedResolution, ticket.ActualResolution
		}
		fmt.Fprintf(&examples, `
**Ticket %s**: %s
- Description: %s
- Predicted: %s
- Correct answer: %s
`, ticket.ID, ticket.Title, truncate(ticket.Description, 200), predicted, actual)
	}

	return fmt.Sprintf(`Analyze these ITSM ticket %s mistakes and identify patterns:

%s

Based on these failures, provide:
1. Key patterns that were missed (specific keywords, phrases, or contexts)
2. Clear rules to correctly handle similar cases
3. A brief description of the skill

Respond with JSON:
{
    "skill_name": "short-descriptive-name",
    "description": "One sentence description",
    "patterns": ["pattern 1", "pattern 2"],
    "rules": ["rule 1", "rule 2", "rule 3"]
}`, dimension, examples.String())
}

// extractProposalFields pulls skill_name, description, and patterns out
// of the synthesis response, tolerating the usual type looseness.
func extractProposalFields(data map[string]any, dimension skill.TaskType, failureCount int) (name, description string, patterns []string) {
	if v, ok := data["skill_name"].(string); ok {
		name = strings.TrimSpace(v)
	}
	description, _ = data["description"].(string)
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("Learned %s patterns from %d failed predictions", dimension, failureCount)
	}

	if raw, ok := data["patterns"].([]any); ok {
		for _, p := range raw {
			if len(patterns) == 3 {
				break
			}
			switch v := p.(type) {
			case string:
				patterns = append(patterns, v)
			case map[string]any:
				if inner, ok := v["pattern"].(string); ok {
					patterns = append(patterns, inner)
				} else if inner, ok := v["name"].(string); ok {
					patterns = append(patterns, inner)
				} else {
					patterns = append(patterns, fmt.Sprint(v))
				}
			default:
				patterns = append(patterns, fmt.Sprint(v))
			}
		}
	}
	return name, description, patterns
}

// displayName builds the human-visible proposal name: the model's name if
// present, else the first words of the description, else the leading
// patterns; sanitized to alphanumerics, spaces, and hyphens, bounded in
// length, and suffixed with the id tail for traceability.
func displayName(name, description string, patterns []string, dimension skill.TaskType, id string) string {
	raw := name
	if raw == "" && strings.TrimSpace(description) != "" {
		words := strings.Fields(description)
		if len(words) > 8 {
			words = words[:8]
		}
		raw = strings.Join(words, " ")
	}
	if raw == "" && len(patterns) > 0 {
		limit := len(patterns)
		if limit > 2 {
			limit = 2
		}
		raw = strings.Join(patterns[:limit], " / ")
	}
	if raw == "" {
		raw = fmt.Sprintf("learned-%s", dimension)
	}

	sanitized := sanitizeName(raw)
	if len(sanitized) > maxDisplayNameLength {
		sanitized = strings.TrimSpace(sanitized[:maxDisplayNameLength])
	}

	suffix := id
	if idx := strings.LastIndex(id, "-"); idx >= 0 {
		suffix = id[idx+1:]
	}
	return fmt.Sprintf("%s (%s)", sanitized, suffix)
}

// sanitizeName keeps letters, digits, spaces, and hyphens, collapsing
// whitespace runs.
func sanitizeName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
