package learning

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/skill"
)

// skillTemplate renders a synthesized skill document. The format matches
// hand-written skills: YAML frontmatter followed by Markdown instructions.
// Insights are phrased as contextual guidance rather than rules, and the
// how-to-apply section says so explicitly.
var skillTemplate = template.Must(template.New("skill").Parse(`---
name: {{.Name}}
description: {{.Description}}
version: 1.0
generated: {{.Timestamp}}
source_tickets: {{.TicketIDs}}
---

# {{.Title}}

{{.Summary}}

## Key Insights from Failed Cases

These insights are based on actual misclassifications. Use them as contextual guidance:

{{.Insights}}

## Examples from Real Failures

These examples show why the previous approach was incorrect:

{{.Examples}}

## How to Apply This Skill

1. When processing a new ticket, review these examples
2. Consider whether the new ticket shares characteristics with any of these failed cases
3. If similarities exist, think carefully about whether the original wrong decision might be made again
4. Use these insights to inform your decision-making, not as absolute rules

## Output Format

` + "```json" + `
{
    "{{.OutputField}}": "your decision here",
    "confidence": 0.0-1.0,
    "reasoning": "Brief explanation of how you applied insights from this skill"
}
` + "```" + `
`))

type templateData struct {
	Name        string
	Description string
	Timestamp   string
	TicketIDs   string
	Title       string
	Summary     string
	Insights    string
	Examples    string
	OutputField string
}

// outputFields maps each dimension to the JSON field its learned skill
// should steer.
var outputFields = map[skill.TaskType]string{
	skill.TaskCategorization: "category",
	skill.TaskRouting:        "primary_team",
	skill.TaskResolution:     "suggested_resolution",
}

// renderSkillDocument produces the full Markdown content for a proposed
// skill from its failure evidence.
func renderSkillDocument(name, description string, dimension skill.TaskType, failures []*triage.ProcessingResult, now time.Time) (string, error) {
	ticketIDs := make([]string, 0, len(failures))
	for _, result := range failures {
		ticketIDs = append(ticketIDs, result.Ticket.ID)
	}

	data := templateData{
		Name:        skill.YAMLScalar(name),
		Description: skill.YAMLScalar(description),
		Timestamp:   now.UTC().Format(time.RFC3339),
		TicketIDs:   strings.Join(ticketIDs, ", "),
		Title:       fmt.Sprintf("Learned %s Insights", titleCase(string(dimension))),
		Summary: fmt.Sprintf("This skill captures insights from analyzing %d incorrect %s predictions. "+
			"Use these as contextual guidelines to improve reasoning, not as rigid rules.",
			len(failures), dimension),
		Insights:    renderInsights(dimension, failures),
		Examples:    renderExamples(dimension, failures),
		OutputField: outputFields[dimension],
	}

	var b strings.Builder
	if err := skillTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderInsights derives one guidance line per failed case: what was
// predicted, what was correct, phrased as context to consider.
func renderInsights(dimension skill.TaskType, failures []*triage.ProcessingResult) string {
	var lines []string
	for _, result := range failures {
		ticket := result.Ticket
		pred := result.Prediction
		switch dimension {
		case skill.TaskRouting:
			lines = append(lines, fmt.Sprintf(
				"- **Ticket about %s**: Was routed to %s but should go to %s. "+
					"Context suggests looking for keywords related to %s responsibilities.",
				strings.ToLower(ticket.Title), pred.PredictedRouting,
				ticket.ActualRouting, strings.ToLower(ticket.ActualRouting)))
		case skill.TaskCategorization:
			lines = append(lines, fmt.Sprintf(
				"- **Ticket: %s**: Was categorized as %s but should be %s. "+
					"The nature of this issue points toward characteristics of %s problems.",
				ticket.Title, pred.PredictedCategory,
				ticket.ActualCategory, ticket.ActualCategory))
		default:
			lines = append(lines, fmt.Sprintf(
				"- **Ticket: %s**: Initial suggestion was %s but the correct approach is %s. "+
					"Consider this type of issue more carefully.",
				ticket.Title, truncate(pred.PredictedResolution, 80),
				truncate(ticket.ActualResolution, 80)))
		}
	}
	if len(lines) == 0 {
		return "No specific patterns to highlight."
	}
	return strings.Join(lines, "\n")
}

// renderExamples reproduces the failure evidence for the document, capped
// at maxEvidenceExamples.
func renderExamples(dimension skill.TaskType, failures []*triage.ProcessingResult) string {
	if len(failures) > maxEvidenceExamples {
		failures = failures[:maxEvidenceExamples]
	}
	var sections []string
	for _, result := range failures {
		ticket := result.Ticket
		pred := result.Prediction
		var incorrect, correct string
		switch dimension {
		case skill.TaskCategorization:
			incorrect, correct = pred.PredictedCategory, ticket.ActualCategory
		case skill.TaskRouting:
			incorrect, correct = pred.PredictedRouting, ticket.ActualRouting
		default:
			incorrect, correct = truncate(pred.PredictedResolution, 100), ticket.ActualResolution
		}
		sections = append(sections, fmt.Sprintf(
			"### %s\n**Description**: %s\n**Incorrect**: %s\n**Correct**: %s\n",
			ticket.Title, truncate(ticket.Description, 150), incorrect, correct))
	}
	return strings.Join(sections, "\n")
}

// truncate shortens text to at most n runes, appending an ellipsis marker
// when anything was cut.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
