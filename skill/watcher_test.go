package skill

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRescansOnPublish(t *testing.T) {
	coreDir := t.TempDir()
	learnedDir := t.TempDir()
	writeSkillDir(t, coreDir, "categorization", "Classify tickets.", "# Categorization")

	r := NewRegistry(RegistryOptions{CoreDir: coreDir, LearnedDir: learnedDir})
	require.NoError(t, r.Rescan())
	require.Len(t, r.List(), 1)

	w, err := NewWatcher(r, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	content := Render("learned-routing-deadbeef", "Routing hints.", "# Hints")
	require.NoError(t, os.WriteFile(
		filepath.Join(learnedDir, "approved_routing-deadbeef.md"), []byte(content), 0644))

	require.Eventually(t, func() bool {
		return len(r.List()) == 2
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
