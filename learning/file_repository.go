package learning

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/triage"
)

// pendingPrefix marks unreviewed proposal files. Approved proposals are
// published to the skill registry instead and never live here.
const pendingPrefix = "pending_"

// FileRepository stores each proposal as an individual JSON file named
// pending_{id}.json in the configured directory. Operations are guarded
// by a read-write mutex.
type FileRepository struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileRepository creates a file-backed proposal repository, creating
// the directory if needed.
func NewFileRepository(baseDir string) (*FileRepository, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileRepository{baseDir: baseDir}, nil
}

func (r *FileRepository) path(id string) string {
	return filepath.Join(r.baseDir, pendingPrefix+id+".json")
}

// Get retrieves a proposal by id. Returns triage.ErrProposalNotFound when
// no pending record exists.
func (r *FileRepository) Get(ctx context.Context, id string) (*ProposedSkill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, triage.ErrProposalNotFound
		}
		return nil, err
	}
	var proposal ProposedSkill
	if err := json.Unmarshal(data, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// Put stores a proposal, replacing any existing record with the same id.
func (r *FileRepository) Put(ctx context.Context, proposal *ProposedSkill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(proposal, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(proposal.ID), data, 0644)
}

// Delete removes a proposal record. Deleting a missing record is not an
// error.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns all stored proposals ordered by creation time, oldest
// first. Files that cannot be read or parsed are skipped.
func (r *FileRepository) List(ctx context.Context) ([]*ProposedSkill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*ProposedSkill{}, nil
		}
		return nil, err
	}

	var proposals []*ProposedSkill
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, pendingPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.baseDir, name))
		if err != nil {
			continue
		}
		var proposal ProposedSkill
		if err := json.Unmarshal(data, &proposal); err != nil {
			continue
		}
		proposals = append(proposals, &proposal)
	}

	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
	})
	return proposals, nil
}
