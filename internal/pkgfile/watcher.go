package pkgfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// Watcher reloads a package file into a shared ArgumentPackage whenever
// another process rewrites it, then broadcasts a change notification under
// its own originator token.
//
// Run delivers every reload and broadcast on the goroutine that calls it,
// so the host keeps all package access on a single goroutine by running
// the watcher there.
type Watcher struct {
	path    string
	pkg     *model.ArgumentPackage
	wctx    *workflow.Context
	token   workflow.Token
	log     *zap.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the directory that holds path. Editors that
// save by writing a new file and renaming it over the old one are
// therefore seen as well.
func NewWatcher(path string, wctx *workflow.Context, pkg *model.ArgumentPackage, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		pkg:     pkg,
		wctx:    wctx,
		token:   workflow.NewToken(),
		log:     logger.With(zap.String("path", abs)),
		watcher: fw,
	}, nil
}

// Token returns the originator token used for reload notifications.
func (w *Watcher) Token() workflow.Token {
	return w.token
}

// Run processes file events until ctx is done, then releases the watcher.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("package watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("package watcher error", zap.Error(err))
		}
	}
}

// reload replaces the package contents with the file contents. A file that
// does not parse (for example one caught half-written) is logged and
// skipped; the following write event reloads it.
func (w *Watcher) reload() {
	loaded, err := Load(w.path)
	if err != nil {
		w.log.Warn("failed to reload argument package", zap.Error(err))
		return
	}
	*w.pkg = *loaded
	n := w.wctx.Broadcast(w.token)
	w.log.Info("argument package reloaded", zap.Int("notified", n))
}
