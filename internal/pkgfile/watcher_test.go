package pkgfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

func TestWatcher_ReloadsAndBroadcasts(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, Save(path, model.NewArgumentPackage()))

	wctx := workflow.NewContext(workflow.KindProcess)
	pkg := model.NewArgumentPackage()
	reloaded := make(chan string, 8)
	unsubscribe := wctx.Subscribe(workflow.NewToken(), func() {
		reloaded <- pkg.ModelName
	})
	defer unsubscribe()

	w, err := NewWatcher(path, wctx, pkg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	changed := model.NewArgumentPackage()
	changed.ModelName = "Edited elsewhere"
	require.NoError(t, Save(path, changed))

	select {
	case name := <-reloaded:
		assert.Equal(t, "Edited elsewhere", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", DefaultFileName),
		workflow.NewContext(workflow.KindProcess), model.NewArgumentPackage(), nil)

	assert.Error(t, err)
}
