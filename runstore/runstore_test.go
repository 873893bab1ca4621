package runstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTicketsForRunJSON(t *testing.T) {
	ticketsDir := t.TempDir()
	store, err := NewFileRunStore(ticketsDir, t.TempDir())
	require.NoError(t, err)

	batch := `[
		{"id": "TKT-001", "title": "VPN down", "description": "Cannot connect",
		 "actual_category": "Incident", "actual_routing": "Network Team",
		 "actual_resolution": "Restart the VPN client"},
		{"id": "TKT-002", "title": "New laptop request", "description": "Starter needs hardware"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(ticketsDir, "run-1.json"), []byte(batch), 0644))

	tickets, err := store.ReadTicketsForRun(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "TKT-001", tickets[0].ID)
	assert.Equal(t, "Incident", tickets[0].ActualCategory)
	assert.Equal(t, "Network Team", tickets[0].ActualRouting)
	assert.Empty(t, tickets[1].ActualCategory)
}

func TestReadTicketsForRunCSV(t *testing.T) {
	ticketsDir := t.TempDir()
	store, err := NewFileRunStore(ticketsDir, t.TempDir())
	require.NoError(t, err)

	content := strings.Join([]string{
		"id,title,description,actual_category,actual_routing,actual_resolution",
		`TKT-001,Printer offline,"Floor 3 printer not responding",Incident,Desktop Support,Restart the print spooler`,
		"TKT-002,Password reset,User locked out,Service Request,Service Desk",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(ticketsDir, "run-2.csv"), []byte(content), 0644))

	tickets, err := store.ReadTicketsForRun(context.Background(), "run-2")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "Printer offline", tickets[0].Title)
	assert.Equal(t, "Restart the print spooler", tickets[0].ActualResolution)
	assert.Equal(t, "Service Desk", tickets[1].ActualRouting)
	assert.Empty(t, tickets[1].ActualResolution)
}

func TestReadTicketsForRunPrefersJSON(t *testing.T) {
	ticketsDir := t.TempDir()
	store, err := NewFileRunStore(ticketsDir, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(ticketsDir, "run-3.json"),
		[]byte(`[{"id": "FROM-JSON"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(ticketsDir, "run-3.csv"),
		[]byte("id\nFROM-CSV\n"), 0644))

	tickets, err := store.ReadTicketsForRun(context.Background(), "run-3")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "FROM-JSON", tickets[0].ID)
}

func TestReadTicketsForRunMissing(t *testing.T) {
	store, err := NewFileRunStore(t.TempDir(), t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadTicketsForRun(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestWriteReportForRun(t *testing.T) {
	reportsDir := t.TempDir()
	store, err := NewFileRunStore(t.TempDir(), reportsDir)
	require.NoError(t, err)

	correct, wrong := true, false
	completed := time.Now()
	run := &triage.ProcessingRun{
		ID:           "run-4",
		StartedAt:    completed.Add(-time.Minute),
		CompletedAt:  &completed,
		TotalTickets: 2,
		Results: []*triage.ProcessingResult{
			{
				Ticket:          &triage.Ticket{ID: "TKT-001"},
				Prediction:      &triage.Prediction{TicketID: "TKT-001"},
				CategoryCorrect: &correct,
			},
			{
				Ticket:          &triage.Ticket{ID: "TKT-002"},
				Prediction:      &triage.Prediction{TicketID: "TKT-002"},
				CategoryCorrect: &wrong,
			},
		},
	}
	require.NoError(t, store.WriteReportForRun(context.Background(), "run-4", run))

	data, err := os.ReadFile(filepath.Join(reportsDir, "run-4.json"))
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "run-4", report.Run.ID)
	require.NotNil(t, report.CategoryAccuracy)
	assert.Equal(t, 2, report.CategoryAccuracy.Evaluated)
	assert.Equal(t, 1, report.CategoryAccuracy.Correct)
	assert.Nil(t, report.RoutingAccuracy)
}
