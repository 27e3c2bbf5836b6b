// run.go implements the "dfmgen run" command.
//
// run commits the package: store pass, engine dispatch, change
// notification, load pass. The package is saved afterwards so that what
// the engine normalized (a blank model name, for example) is kept.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/engine"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Commit the package and dispatch it to the engine",
		Long: `Commit the argument package and dispatch a job to the calculation engine.

With engine.mode "file" (the default) the job is written to
<engine.output_dir>/<job id>/job.toml for a separately started engine.
With engine.mode "docker" the engine image runs in a container and the
command waits for it to exit.

Examples:
  dfmgen run
  dfmgen run --json
  DFMGEN_ENGINE_MODE=docker dfmgen run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runRun(cmd *cobra.Command, w io.Writer) error {
	var dispatched *engine.Job
	s, err := openSession(sessionOptions{
		kind:   workflow.KindProcess,
		engine: true,
		onJob:  func(job *engine.Job) { dispatched = job },
	})
	if err != nil {
		return err
	}
	defer s.close()

	commitErr := s.ctrl.Commit(cmd.Context())

	// The load pass already ran; keep whatever the engine normalized even
	// when the dispatch failed.
	if err := s.save(); err != nil {
		return err
	}
	if commitErr != nil {
		return commitErr
	}

	if dispatched == nil {
		// The session was opened with an executing context, so a commit
		// always dispatches.
		return fmt.Errorf("no job was dispatched")
	}
	logger.Info("job committed", zap.String("job", dispatched.ID), zap.String("mode", cfg.Engine.Mode))

	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{
			"job":       dispatched.ID,
			"model":     dispatched.Package.ModelName,
			"episodes":  dispatched.Package.EpisodeCount(),
			"createdAt": dispatched.CreatedAt.Format(time.RFC3339),
			"mode":      cfg.Engine.Mode,
		})
	}
	fmt.Fprintf(w, "Dispatched job %s (%s, %d episode(s))\n",
		dispatched.ID, dispatched.Package.ModelName, dispatched.Package.EpisodeCount())
	return nil
}
