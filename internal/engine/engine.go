// Package engine turns a committed argument package into a job for the
// external DFN calculation engine.
//
// The settings core never runs the calculation itself. On commit it asks a
// Source for an Executor bound to the package and calls Run, which
// normalizes the package, snapshots it into a Job and hands the Job to a
// Dispatcher. Two dispatchers exist: FileDispatcher writes a TOML job
// description for a separately started engine, and the docker package runs
// the engine image in a container.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// Job is one dispatched calculation.
type Job struct {
	// ID is a random UUID, also used as the job file and container name.
	ID string `toml:"id"`

	// CreatedAt is the dispatch time in UTC.
	CreatedAt time.Time `toml:"created_at"`

	// Package is a snapshot of the argument package at dispatch time.
	Package model.ArgumentPackage `toml:"package"`
}

// Dispatcher delivers a job to the calculation engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *Job) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, job *Job) error

// Dispatch calls f(ctx, job).
func (f DispatcherFunc) Dispatch(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// Source produces executors for argument packages.
type Source struct {
	dispatcher Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSource returns a Source that sends jobs to d. A nil logger disables
// logging.
func NewSource(d Dispatcher, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{dispatcher: d, logger: logger, now: time.Now}
}

// Executor returns an executor bound to pkg.
func (s *Source) Executor(pkg *model.ArgumentPackage) *Executor {
	return &Executor{source: s, pkg: pkg}
}

// Executor runs one package through the engine.
type Executor struct {
	source *Source
	pkg    *model.ArgumentPackage
}

// Run normalizes the package in place, then dispatches a snapshot of it.
// Normalization is the only engine-side change a caller can observe: a
// blank model name becomes the default name, and the dual-source rule is
// re-applied.
//
// Errors are returned as *model.CLIError. Dispatcher errors that already
// carry an exit code keep it; others are reported as ExitEngineFailed.
func (e *Executor) Run(ctx context.Context) error {
	if strings.TrimSpace(e.pkg.ModelName) == "" {
		e.pkg.ModelName = model.DefaultModelName
	}
	e.pkg.Normalize()

	job := &Job{
		ID:        uuid.NewString(),
		CreatedAt: e.source.now().UTC(),
		Package:   *e.pkg.Clone(),
	}

	log := e.source.logger.With(zap.String("job", job.ID), zap.String("model", job.Package.ModelName))
	log.Info("dispatching job", zap.Int("episodes", job.Package.EpisodeCount()))

	if err := e.source.dispatcher.Dispatch(ctx, job); err != nil {
		log.Error("job dispatch failed", zap.Error(err))
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			return cliErr
		}
		return model.WrapCLIError(model.ExitEngineFailed, "engine dispatch failed", err)
	}

	log.Info("job dispatched")
	return nil
}
