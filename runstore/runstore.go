// Package runstore implements the collaborator-owned persistence boundary
// for processing runs: tickets in, reports out. The core pipeline only
// depends on the triage.RunStore interface; this package is the file-backed
// implementation used by the CLI.
package runstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/triage"
)

// FileRunStore reads ticket batches from a tickets directory and writes
// one JSON report per run to a reports directory. Tickets may be supplied
// as <run-id>.json (an array of tickets) or <run-id>.csv.
type FileRunStore struct {
	mu         sync.RWMutex
	ticketsDir string
	reportsDir string
}

var _ triage.RunStore = &FileRunStore{}

// NewFileRunStore creates a file-backed run store, creating both
// directories if needed.
func NewFileRunStore(ticketsDir, reportsDir string) (*FileRunStore, error) {
	for _, dir := range []string{ticketsDir, reportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &FileRunStore{ticketsDir: ticketsDir, reportsDir: reportsDir}, nil
}

// ReadTicketsForRun loads the tickets for a run, preferring a JSON batch
// file over CSV when both exist.
func (s *FileRunStore) ReadTicketsForRun(ctx context.Context, runID string) ([]*triage.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jsonPath := filepath.Join(s.ticketsDir, runID+".json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		var tickets []*triage.Ticket
		if err := json.Unmarshal(data, &tickets); err != nil {
			return nil, fmt.Errorf("parsing tickets file %s: %w", jsonPath, err)
		}
		return tickets, nil
	}

	csvPath := filepath.Join(s.ticketsDir, runID+".csv")
	f, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no tickets found for run %q", runID)
		}
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

// WriteReportForRun writes the completed run as a single JSON report.
func (s *FileRunStore) WriteReportForRun(ctx context.Context, runID string, run *triage.ProcessingRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := BuildReport(run)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.reportsDir, runID+".json"), data, 0644)
}

// parseCSV reads tickets from CSV content. The header row names the
// columns; unknown columns are ignored and missing optional columns leave
// fields empty.
func parseCSV(r io.Reader) ([]*triage.Ticket, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var tickets []*triage.Ticket
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv record: %w", err)
		}
		tickets = append(tickets, &triage.Ticket{
			ID:               field(record, "id"),
			Title:            field(record, "title"),
			Description:      field(record, "description"),
			ActualCategory:   field(record, "actual_category"),
			ActualRouting:    field(record, "actual_routing"),
			ActualResolution: field(record, "actual_resolution"),
		})
	}
	return tickets, nil
}
