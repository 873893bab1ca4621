// Package engine turns tickets into judged predictions. It composes a
// system prompt from the active skill set, invokes the inference gateway,
// normalizes the loosely-typed response, and scores each dimension against
// ground truth where it exists.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/compare"
	"github.com/deepnoodle-ai/triage/extract"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/skill"
	"github.com/deepnoodle-ai/triage/slogger"
)

// Default field values used when the model response is missing or
// unusable. The batch keeps going either way.
const (
	DefaultCategory    = "Unknown"
	DefaultRouting     = "General Support"
	DefaultResolution  = "Further investigation required"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2048
)

const systemPromptHeader = `You are an ITSM (IT Service Management) agent specializing in ticket processing.
Your role is to analyze support tickets and provide:
1. Category classification
2. Routing recommendation
3. Resolution suggestion

Respond ONLY with a JSON object in this exact format:
{
    "category": "Incident|Problem|Change Request|Service Request",
    "category_confidence": 0.0-1.0,
    "routing": "Team or group name",
    "routing_confidence": 0.0-1.0,
    "resolution": "Suggested resolution or next steps",
    "resolution_confidence": 0.0-1.0,
    "reasoning": "Brief explanation of your decisions"
}`

// Options configures a prediction engine. A nil Temperature means the
// default; zero is a valid explicit setting.
type Options struct {
	Gateway     llm.LLM
	Model       string
	MaxTokens   int
	Temperature *float64
	Logger      slogger.Logger
}

// Engine produces one ProcessingResult per ticket. Construct it once at
// process start and pass it explicitly; it holds no global state.
type Engine struct {
	gateway     llm.LLM
	model       string
	maxTokens   int
	temperature float64
	logger      slogger.Logger
}

// New creates a prediction engine.
func New(opts Options) (*Engine, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("prediction engine requires a gateway")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDevNullLogger()
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := float64(DefaultTemperature)
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	return &Engine{
		gateway:     opts.Gateway,
		model:       opts.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Predict processes a single ticket against the given skill snapshot.
// Gateway failures and malformed responses degrade to default field
// values; the returned result is never nil and the method never errors
// the batch.
func (e *Engine) Predict(ctx context.Context, snap *skill.Snapshot, ticket *triage.Ticket) *triage.ProcessingResult {
	systemPrompt := e.buildSystemPrompt(snap)
	userPrompt := buildTicketPrompt(ticket)

	opts := []llm.Option{
		llm.WithMessages(llm.NewUserMessage(userPrompt)),
		llm.WithSystemPrompt(systemPrompt),
		llm.WithTemperature(e.temperature),
		llm.WithMaxTokens(e.maxTokens),
		llm.WithLogger(e.logger),
	}
	if e.model != "" {
		opts = append(opts, llm.WithModel(e.model))
	}

	data := map[string]any{}
	response, err := e.gateway.Generate(ctx, opts...)
	if err != nil {
		e.logger.Warn("gateway call failed, using default prediction",
			"ticket_id", ticket.ID, "error", err)
	} else {
		data = extract.Object(response.Text)
		if len(data) == 0 {
			e.logger.Warn("no usable prediction in model response",
				"ticket_id", ticket.ID)
		}
	}

	prediction := normalizePrediction(ticket.ID, data)
	result := &triage.ProcessingResult{
		Ticket:     ticket,
		Prediction: prediction,
	}

	if ticket.ActualCategory != "" {
		correct := compare.Values(prediction.PredictedCategory, ticket.ActualCategory)
		result.CategoryCorrect = &correct
	}
	if ticket.ActualRouting != "" {
		correct := compare.Values(prediction.PredictedRouting, ticket.ActualRouting)
		result.RoutingCorrect = &correct
	}
	if ticket.ActualResolution != "" {
		correct := compare.Resolution(prediction.PredictedResolution, ticket.ActualResolution)
		result.ResolutionCorrect = &correct
	}
	return result
}

// ProcessBatch processes tickets strictly in input order and returns one
// result per ticket in the same order. Individual failures degrade that
// ticket's result only.
func (e *Engine) ProcessBatch(ctx context.Context, snap *skill.Snapshot, tickets []*triage.Ticket) []*triage.ProcessingResult {
	results := make([]*triage.ProcessingResult, 0, len(tickets))
	for _, ticket := range tickets {
		results = append(results, e.Predict(ctx, snap, ticket))
	}
	return results
}

// buildSystemPrompt assembles the fixed instruction header, the core
// skills in precedence order, and any learned skills as supplementary
// guidance, secondary to the core guidelines.
func (e *Engine) buildSystemPrompt(snap *skill.Snapshot) string {
	var b strings.Builder
	b.WriteString(systemPromptHeader)

	sections := []struct {
		name  string
		title string
	}{
		{"ticket-parser", "Ticket Parsing Guidelines"},
		{"categorization", "Categorization Guidelines"},
		{"routing", "Routing Guidelines"},
		{"resolution", "Resolution Guidelines"},
	}
	for _, section := range sections {
		if body, ok := snap.Content(section.name); ok && body != "" {
			fmt.Fprintf(&b, "\n\n## %s\n%s", section.title, body)
		}
	}

	learned := learnedSkills(snap)
	if len(learned) > 0 {
		b.WriteString("\n\n## Supplementary Insights from Learned Skills\n")
		b.WriteString("The following insights come from analyzing past incorrect predictions. ")
		b.WriteString("Use them as contextual guidance to inform your reasoning, but your primary ")
		b.WriteString("decision-making should follow the core guidelines above.\n")
		for _, s := range learned {
			if body, ok := snap.Content(s.Name); ok && body != "" {
				fmt.Fprintf(&b, "\n### %s\n%s", s.Name, body)
			}
		}
	}
	return b.String()
}

// learnedSkills returns the snapshot's skills outside the core set, in the
// snapshot's stable order.
func learnedSkills(snap *skill.Snapshot) []*skill.Skill {
	var learned []*skill.Skill
	for _, s := range snap.List() {
		if !skill.IsCoreSkill(s.Name) {
			learned = append(learned, s)
		}
	}
	return learned
}

// buildTicketPrompt renders the per-ticket user prompt.
func buildTicketPrompt(ticket *triage.Ticket) string {
	created := "Not specified"
	if ticket.CreatedAt != nil {
		created = ticket.CreatedAt.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf(`Analyze the following ITSM ticket and provide category, routing, and resolution:

**Ticket ID**: %s
**Title**: %s
**Description**: %s
**Created**: %s

Provide your analysis as JSON.`, ticket.ID, ticket.Title, ticket.Description, created)
}
