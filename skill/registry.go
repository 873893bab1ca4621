package skill

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/triage/slogger"
)

// approvedPrefix marks published learned skills in the learned directory.
const approvedPrefix = "approved_"

// RegistryOptions configures skill discovery.
type RegistryOptions struct {
	// CoreDir holds the core skill set: subdirectories containing a
	// SKILL.md file, or standalone .md files.
	CoreDir string

	// LearnedDir holds published learned skills as approved_*.md files.
	// The lifecycle manager writes here on approval.
	LearnedDir string

	// Logger receives discovery warnings. Defaults to a no-op logger.
	Logger slogger.Logger
}

// Registry discovers skills and serves their content lazily.
//
// Discovery reads only frontmatter; Content loads and caches full bodies
// on first use. Reads are guarded by a RWMutex so prediction runs can read
// concurrently while the lifecycle manager publishes new skills. Runs that
// need a consistent view across a whole batch should take a Snapshot.
type Registry struct {
	mu       sync.RWMutex
	opts     RegistryOptions
	skills   map[string]*Skill
	ordered  []*Skill
	contents map[string]string
	logger   slogger.Logger
}

// NewRegistry creates a registry. Call Rescan (or Discover) to populate it.
func NewRegistry(opts RegistryOptions) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDevNullLogger()
	}
	return &Registry{
		opts:     opts,
		skills:   make(map[string]*Skill),
		contents: make(map[string]string),
		logger:   logger,
	}
}

// Rescan re-discovers all skills, replacing the active set. Previously
// cached content is dropped so superseded files are re-read. Malformed
// skill files are logged and skipped; the scan itself never fails because
// of one bad file.
func (r *Registry) Rescan() error {
	discovered := make(map[string]*Skill)
	var ordered []*Skill

	add := func(s *Skill) {
		// First skill with a given name wins; names are unique within
		// the active set.
		if _, exists := discovered[s.Name]; exists {
			r.logger.Debug("skill already loaded, ignoring", "name", s.Name, "path", s.Path)
			return
		}
		discovered[s.Name] = s
		ordered = append(ordered, s)
	}

	if r.opts.CoreDir != "" {
		for _, path := range r.skillFiles(r.opts.CoreDir, "") {
			if s := r.readSkill(path); s != nil {
				add(s)
			}
		}
	}
	if r.opts.LearnedDir != "" {
		for _, path := range r.skillFiles(r.opts.LearnedDir, approvedPrefix) {
			if s := r.readSkill(path); s != nil {
				add(s)
			}
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	r.mu.Lock()
	r.skills = discovered
	r.ordered = ordered
	r.contents = make(map[string]string)
	r.mu.Unlock()

	r.logger.Debug("skill registry scanned", "count", len(ordered))
	return nil
}

// Discover rescans and returns the active skill metadata, ordered by name.
// Bodies are not read.
func (r *Registry) Discover() ([]*Skill, error) {
	if err := r.Rescan(); err != nil {
		return nil, err
	}
	return r.List(), nil
}

// List returns the current active skill metadata without rescanning.
func (r *Registry) List() []*Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Skill, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Content returns the instruction body of a skill, loading and caching it
// on first use. The second return value is false when the name is not in
// the active set or the body cannot be read.
func (r *Registry) Content(name string) (string, bool) {
	r.mu.RLock()
	if body, ok := r.contents[name]; ok {
		r.mu.RUnlock()
		return body, true
	}
	s, ok := r.skills[name]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		r.logger.Warn("failed to load skill content", "name", name, "error", err)
		return "", false
	}
	body := StripFrontmatter(raw)

	r.mu.Lock()
	r.contents[name] = body
	r.mu.Unlock()
	return body, true
}

// ForTask returns the active skills relevant to a task type, matched by
// description keywords.
func (r *Registry) ForTask(taskType TaskType) []*Skill {
	return ForTask(r.List(), taskType)
}

// Snapshot captures the current active set for one processing run. The
// snapshot's view of which skills exist is immutable; bodies are still
// loaded lazily, which is safe because published skill files are never
// rewritten in place.
func (r *Registry) Snapshot() *Snapshot {
	return &Snapshot{registry: r, skills: r.List()}
}

// skillFiles lists candidate skill file paths under dir. When prefix is
// non-empty, only standalone files with that prefix are included.
func (r *Registry) skillFiles(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("failed to read skills directory", "dir", dir, "error", err)
		}
		return nil
	}
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if prefix != "" {
				continue
			}
			candidate := filepath.Join(dir, name, "SKILL.md")
			if _, err := os.Stat(candidate); err == nil {
				paths = append(paths, candidate)
			}
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// readSkill reads a skill's metadata, returning nil (with a warning) when
// the file is malformed.
func (r *Registry) readSkill(path string) *Skill {
	meta, err := ReadMetadata(path)
	if err != nil {
		r.logger.Warn("failed to parse skill file", "path", path, "error", err)
		return nil
	}
	return &Skill{
		Name:        meta.Name,
		Description: meta.Description,
		Approved:    true,
		Path:        path,
	}
}

// Snapshot is an immutable per-run view of the registry's active set.
// A run holding a snapshot cannot observe skills being approved or
// rejected mid-flight.
type Snapshot struct {
	registry *Registry
	skills   []*Skill

	mu       sync.Mutex
	contents map[string]string
}

// List returns the snapshot's skill metadata in stable order.
func (s *Snapshot) List() []*Skill {
	return s.skills
}

// ForTask filters the snapshot's skills by task keywords.
func (s *Snapshot) ForTask(taskType TaskType) []*Skill {
	return ForTask(s.skills, taskType)
}

// Content returns a skill body from the snapshot, loading lazily from the
// file pinned at snapshot time.
func (s *Snapshot) Content(name string) (string, bool) {
	s.mu.Lock()
	if s.contents == nil {
		s.contents = make(map[string]string)
	}
	if body, ok := s.contents[name]; ok {
		s.mu.Unlock()
		return body, true
	}
	s.mu.Unlock()

	var pinned *Skill
	for _, sk := range s.skills {
		if sk.Name == name {
			pinned = sk
			break
		}
	}
	if pinned == nil {
		return "", false
	}
	raw, err := os.ReadFile(pinned.Path)
	if err != nil {
		s.registry.logger.Warn("failed to load skill content", "name", name, "error", err)
		return "", false
	}
	body := StripFrontmatter(raw)

	s.mu.Lock()
	s.contents[name] = body
	s.mu.Unlock()
	return body, true
}
