package cli

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/config"
	"github.com/shinji-kodama/dfmgen/internal/controller"
	"github.com/shinji-kodama/dfmgen/internal/docker"
	"github.com/shinji-kodama/dfmgen/internal/engine"
	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/pkgfile"
	"github.com/shinji-kodama/dfmgen/internal/units"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// session is one command's view of the argument package: the file it was
// read from, the shared workflow context and a controller bound to both.
type session struct {
	path string
	wctx *workflow.Context
	pkg  *model.ArgumentPackage
	ctrl *controller.Controller

	// closers release engine resources (the Docker client) in reverse order.
	closers []func()
}

// sessionOptions controls how a session is opened.
type sessionOptions struct {
	// kind is the workflow context kind. Only KindProcess executes the
	// engine on commit.
	kind workflow.Kind

	// create starts from the defaults when no package file exists yet.
	create bool

	// engine attaches an executor source built from the configuration.
	engine bool

	// onJob, when set, is called with every dispatched job.
	onJob func(job *engine.Job)
}

// openSession resolves the package path, loads the package and builds a
// controller for it.
func openSession(opts sessionOptions) (*session, error) {
	path, err := resolvePackagePath(opts.create)
	if err != nil {
		return nil, err
	}

	pkg, err := pkgfile.Load(path)
	if err != nil {
		var cliErr *model.CLIError
		if !opts.create || !errors.As(err, &cliErr) || cliErr.Code != model.ExitPackageNotFound {
			return nil, err
		}
		logger.Debug("starting a new argument package", zap.String("path", path))
		pkg = model.NewArgumentPackage()
	}

	system, err := units.Lookup(cfg.Units.System)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid units.system", err)
	}

	s := &session{
		path: path,
		wctx: workflow.NewContext(opts.kind),
		pkg:  pkg,
	}

	var source controller.ExecutorSource
	if opts.engine {
		d, closer, err := newDispatcher(cfg.Engine)
		if err != nil {
			return nil, err
		}
		if closer != nil {
			s.closers = append(s.closers, closer)
		}
		if opts.onJob != nil {
			inner := d
			d = engine.DispatcherFunc(func(ctx context.Context, job *engine.Job) error {
				opts.onJob(job)
				return inner.Dispatch(ctx, job)
			})
		}
		source = engine.NewSource(d, logger)
	}

	s.ctrl = controller.New(s.wctx, pkg, source, controller.Options{
		Units:  system,
		Logger: logger,
	})
	s.closers = append(s.closers, s.ctrl.Close)
	return s, nil
}

// save writes the package back to its file.
func (s *session) save() error {
	if err := pkgfile.Save(s.path, s.pkg); err != nil {
		return err
	}
	logger.Debug("argument package saved", zap.String("path", s.path))
	return nil
}

// close releases everything the session opened.
func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// resolvePackagePath applies the lookup order --package, package.path,
// then the standard locations under the working directory. With create,
// a missing file resolves to dfn-package.yaml in the working directory.
func resolvePackagePath(create bool) (string, error) {
	if packagePath != "" {
		return packagePath, nil
	}
	if cfg.Package.Path != "" {
		return cfg.Package.Path, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to determine the working directory", err)
	}
	path, err := pkgfile.Find(wd)
	if err != nil {
		if create {
			return pkgfile.DefaultFileName, nil
		}
		return "", err
	}
	return path, nil
}

// newDispatcher builds the engine dispatcher for the configured mode. The
// returned closer, if any, must be called when the session ends.
func newDispatcher(ec config.EngineConfig) (engine.Dispatcher, func(), error) {
	switch ec.Mode {
	case config.EngineModeDocker:
		cli, err := docker.NewClient()
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("connected to Docker daemon", zap.String("image", ec.Image))
		d := &docker.Dispatcher{
			Client:   cli,
			Image:    ec.Image,
			SpoolDir: ec.OutputDir,
			Logger:   logger,
		}
		return d, func() { _ = cli.Close() }, nil
	default:
		return &engine.FileDispatcher{Root: ec.OutputDir}, nil, nil
	}
}
