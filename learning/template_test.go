package learning

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/skill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSkillDocument(t *testing.T) {
	failures := []*triage.ProcessingResult{
		failedResult("TKT-001", skill.TaskRouting),
		failedResult("TKT-002", skill.TaskRouting),
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	content, err := renderSkillDocument("vpn routing (1a2b3c4d)",
		"Route VPN tickets to the Network Team", skill.TaskRouting, failures, now)
	require.NoError(t, err)

	// The rendered document must be discoverable as a skill file.
	doc, err := skill.ParseContent([]byte(content), "approved_routing-1a2b3c4d.md")
	require.NoError(t, err)
	assert.Equal(t, "vpn routing (1a2b3c4d)", doc.Name)
	assert.Equal(t, "Route VPN tickets to the Network Team", doc.Description)

	assert.Contains(t, content, "source_tickets: TKT-001, TKT-002")
	assert.Contains(t, content, "generated: 2026-03-14T09:30:00Z")
	assert.Contains(t, content, "# Learned Routing Insights")
	assert.Contains(t, content, "## Key Insights from Failed Cases")
	assert.Contains(t, content, "## Examples from Real Failures")
	assert.Contains(t, content, "## How to Apply This Skill")
	assert.Contains(t, content, `"primary_team": "your decision here"`)
	assert.Contains(t, content, "should go to Network Team")
}

func TestRenderSkillDocumentQuotesFrontmatter(t *testing.T) {
	// Descriptions come straight from the model and may contain YAML
	// metacharacters; the rendered frontmatter must still round-trip.
	tests := []struct {
		name        string
		description string
	}{
		{"colon in description", "Route VPN tickets: prefer the Network Team"},
		{"quotes in description", `Handle "printer offline" reports`},
		{"hash in description", "Escalate #critical incidents immediately"},
		{"colon in name", "vpn: routing (1a2b3c4d)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures := []*triage.ProcessingResult{
				failedResult("TKT-001", skill.TaskRouting),
				failedResult("TKT-002", skill.TaskRouting),
			}
			content, err := renderSkillDocument(tt.name, tt.description,
				skill.TaskRouting, failures, time.Now())
			require.NoError(t, err)

			doc, err := skill.ParseContent([]byte(content), "approved_routing-1a2b3c4d.md")
			require.NoError(t, err)
			assert.Equal(t, tt.name, doc.Name)
			assert.Equal(t, tt.description, doc.Description)
		})
	}
}

func TestSynthesizedSkillSurvivesApprovalScan(t *testing.T) {
	ctx := context.Background()
	gateway := &stubLLM{response: `{
		"skill_name": "vpn-routing",
		"description": "Route VPN tickets: prefer the Network Team over the Service Desk",
		"patterns": ["vpn"],
		"rules": ["VPN issues belong to the Network Team"]
	}`}
	synth, repo := newTestSynthesizer(t, gateway)

	proposals, err := synth.Synthesize(ctx, []*triage.ProcessingResult{
		failedResult("TKT-001", skill.TaskRouting),
		failedResult("TKT-002", skill.TaskRouting),
	})
	require.NoError(t, err)
	require.Len(t, proposals, 1)

	publishDir := t.TempDir()
	lc, err := NewLifecycle(LifecycleOptions{Repository: repo, PublishDir: publishDir})
	require.NoError(t, err)
	approved, err := lc.Approve(ctx, proposals[0].ID)
	require.NoError(t, err)

	// The published document must come back through registry discovery,
	// not get skipped as malformed.
	registry := skill.NewRegistry(skill.RegistryOptions{LearnedDir: publishDir})
	skills, err := registry.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, approved.Name, skills[0].Name)
	assert.Equal(t, approved.Description, skills[0].Description)
}

func TestRenderSkillDocumentOutputFields(t *testing.T) {
	tests := []struct {
		dimension skill.TaskType
		field     string
	}{
		{skill.TaskCategorization, "category"},
		{skill.TaskRouting, "primary_team"},
		{skill.TaskResolution, "suggested_resolution"},
	}
	for _, tt := range tests {
		t.Run(string(tt.dimension), func(t *testing.T) {
			failures := []*triage.ProcessingResult{
				failedResult("TKT-001", tt.dimension),
				failedResult("TKT-002", tt.dimension),
			}
			content, err := renderSkillDocument("n", "d", tt.dimension, failures, time.Now())
			require.NoError(t, err)
			assert.Contains(t, content, fmt.Sprintf("%q: \"your decision here\"", tt.field))
		})
	}
}

func TestRenderExamplesCapped(t *testing.T) {
	var failures []*triage.ProcessingResult
	for i := 0; i < 8; i++ {
		f := failedResult(fmt.Sprintf("TKT-%03d", i), skill.TaskResolution)
		f.Ticket.Title = fmt.Sprintf("Issue number %d", i)
		failures = append(failures, f)
	}
	examples := renderExamples(skill.TaskResolution, failures)
	assert.Equal(t, maxEvidenceExamples, strings.Count(examples, "### "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly ten", truncate("exactly ten", 11))
	assert.Equal(t, "long te...", truncate("long text that keeps going", 7))
}
