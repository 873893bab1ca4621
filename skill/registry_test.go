package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkillDir(t *testing.T, root, name, description, body string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := Render(name, description, body)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0644))
}

func TestRegistryDiscovery(t *testing.T) {
	coreDir := t.TempDir()
	learnedDir := t.TempDir()

	writeSkillDir(t, coreDir, "categorization", "Classify tickets into categories.", "# Categorization")
	writeSkillDir(t, coreDir, "routing", "Assign tickets to the right team.", "# Routing")

	approved := Render("learned-resolution-1a2b3c4d",
		"Improves resolution suggestions for VPN issues.", "# VPN Fixes")
	require.NoError(t, os.WriteFile(
		filepath.Join(learnedDir, "approved_resolution-1a2b3c4d.md"), []byte(approved), 0644))

	// Pending proposals are JSON and must not surface as skills.
	require.NoError(t, os.WriteFile(
		filepath.Join(learnedDir, "pending_routing-99999999.json"), []byte("{}"), 0644))

	r := NewRegistry(RegistryOptions{CoreDir: coreDir, LearnedDir: learnedDir})
	skills, err := r.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 3)

	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"categorization", "learned-resolution-1a2b3c4d", "routing"}, names)
}

func TestRegistrySkipsMalformedFiles(t *testing.T) {
	coreDir := t.TempDir()
	writeSkillDir(t, coreDir, "resolution", "Suggest solutions and fixes.", "# Resolution")

	bad := filepath.Join(coreDir, "broken")
	require.NoError(t, os.MkdirAll(bad, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "SKILL.md"),
		[]byte("no frontmatter at all"), 0644))

	r := NewRegistry(RegistryOptions{CoreDir: coreDir})
	skills, err := r.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "resolution", skills[0].Name)
}

func TestRegistryContentLazyLoad(t *testing.T) {
	coreDir := t.TempDir()
	writeSkillDir(t, coreDir, "ticket-parser", "Extract structured fields.", "# Parsing\n\nRead carefully.")

	r := NewRegistry(RegistryOptions{CoreDir: coreDir})
	require.NoError(t, r.Rescan())

	body, ok := r.Content("ticket-parser")
	require.True(t, ok)
	assert.Equal(t, "# Parsing\n\nRead carefully.", body)

	_, ok = r.Content("nonexistent")
	assert.False(t, ok)
}

func TestRegistryForTask(t *testing.T) {
	coreDir := t.TempDir()
	writeSkillDir(t, coreDir, "categorization", "Classify tickets into categories.", "x")
	writeSkillDir(t, coreDir, "routing", "Assign tickets to the right team.", "x")
	writeSkillDir(t, coreDir, "resolution", "Suggest a fix for the reported issue.", "x")

	r := NewRegistry(RegistryOptions{CoreDir: coreDir})
	require.NoError(t, r.Rescan())

	cat := r.ForTask(TaskCategorization)
	require.Len(t, cat, 1)
	assert.Equal(t, "categorization", cat[0].Name)

	rout := r.ForTask(TaskRouting)
	require.Len(t, rout, 1)
	assert.Equal(t, "routing", rout[0].Name)

	res := r.ForTask(TaskResolution)
	require.Len(t, res, 1)
	assert.Equal(t, "resolution", res[0].Name)

	assert.Empty(t, r.ForTask(TaskType("unknown")))
}

func TestSnapshotIsolation(t *testing.T) {
	coreDir := t.TempDir()
	learnedDir := t.TempDir()
	writeSkillDir(t, coreDir, "categorization", "Classify tickets.", "# Categorization")

	r := NewRegistry(RegistryOptions{CoreDir: coreDir, LearnedDir: learnedDir})
	require.NoError(t, r.Rescan())

	snap := r.Snapshot()
	require.Len(t, snap.List(), 1)

	// A skill approved after the snapshot is visible to the registry on
	// rescan but not to the snapshot.
	approved := Render("learned-routing-deadbeef", "Routing hints.", "# Hints")
	require.NoError(t, os.WriteFile(
		filepath.Join(learnedDir, "approved_routing-deadbeef.md"), []byte(approved), 0644))
	require.NoError(t, r.Rescan())

	require.Len(t, r.List(), 2)
	require.Len(t, snap.List(), 1)
	assert.Equal(t, "categorization", snap.List()[0].Name)

	body, ok := snap.Content("categorization")
	require.True(t, ok)
	assert.Equal(t, "# Categorization", body)

	_, ok = snap.Content("learned-routing-deadbeef")
	assert.False(t, ok)
}

func TestIsCoreSkill(t *testing.T) {
	for _, name := range CoreSkillNames {
		assert.True(t, IsCoreSkill(name))
	}
	assert.False(t, IsCoreSkill("learned-resolution-1a2b3c4d"))
}

func TestRegistryDuplicateNamesFirstWins(t *testing.T) {
	coreDir := t.TempDir()
	learnedDir := t.TempDir()
	writeSkillDir(t, coreDir, "routing", "Core routing guidance.", "core body")

	dup := Render("routing", "Learned routing guidance.", "learned body")
	require.NoError(t, os.WriteFile(
		filepath.Join(learnedDir, "approved_routing.md"), []byte(dup), 0644))

	r := NewRegistry(RegistryOptions{CoreDir: coreDir, LearnedDir: learnedDir})
	require.NoError(t, r.Rescan())

	skills := r.List()
	require.Len(t, skills, 1)
	assert.Equal(t, "Core routing guidance.", skills[0].Description)
}
