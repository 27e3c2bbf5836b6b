// jobs.go implements the "dfmgen jobs" command.
//
// In docker mode jobs are discovered from the labels of the engine
// containers. In file mode the spool directory is scanned for job
// descriptions instead; those jobs have no container and report the status
// "spooled".
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/config"
	"github.com/shinji-kodama/dfmgen/internal/docker"
	"github.com/shinji-kodama/dfmgen/internal/engine"
	"github.com/shinji-kodama/dfmgen/internal/model"
)

// statusSpooled is reported for jobs found in the spool directory.
const statusSpooled = "spooled"

type jobsFlags struct {
	// prune removes exited job containers after listing them.
	prune bool
}

// NewJobsCommand creates the "jobs" cobra command.
func NewJobsCommand() *cobra.Command {
	flags := &jobsFlags{}

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List dispatched engine jobs",
		Long: `List the jobs dispatched by "dfmgen run", newest first.

Examples:
  dfmgen jobs
  dfmgen jobs --json
  DFMGEN_ENGINE_MODE=docker dfmgen jobs --prune`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobs(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.prune, "prune", false,
		"Remove exited job containers (docker mode only)")

	return cmd
}

func runJobs(ctx context.Context, w io.Writer, flags *jobsFlags) error {
	if cfg.Engine.Mode != config.EngineModeDocker {
		if flags.prune {
			return model.NewCLIError(model.ExitGeneralError, "--prune requires engine.mode \"docker\"")
		}
		jobs, err := listSpoolJobs(cfg.Engine.OutputDir)
		if err != nil {
			return err
		}
		return printJobs(w, jobs)
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	jobs, err := docker.ListJobs(ctx, cli)
	if err != nil {
		return err
	}
	logger.Debug("listed job containers", zap.Int("count", len(jobs)))

	if flags.prune {
		kept := jobs[:0]
		for _, job := range jobs {
			if job.Status != "exited" {
				kept = append(kept, job)
				continue
			}
			if err := docker.RemoveJob(ctx, cli, job.ID); err != nil {
				return err
			}
			logger.Info("removed job container", zap.String("job", job.ID))
		}
		jobs = kept
	}
	return printJobs(w, jobs)
}

// listSpoolJobs reads <root>/*/job.toml. A missing root means no jobs;
// unreadable job files are skipped.
func listSpoolJobs(root string) ([]docker.JobInfo, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read spool directory %s", root), err)
	}

	var jobs []docker.JobInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		job, err := readJobFile(filepath.Join(root, e.Name(), engine.JobFileName))
		if err != nil {
			logger.Debug("skipping spool entry", zap.String("dir", e.Name()), zap.Error(err))
			continue
		}
		jobs = append(jobs, docker.JobInfo{
			ID:        job.ID,
			ModelName: job.Package.ModelName,
			Episodes:  strconv.Itoa(job.Package.EpisodeCount()),
			CreatedAt: job.CreatedAt,
			Status:    statusSpooled,
		})
	}
	docker.SortJobs(jobs)
	return jobs, nil
}

func readJobFile(path string) (*engine.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return engine.DecodeJob(f)
}

type jobJSON struct {
	ID          string `json:"id"`
	Model       string `json:"model"`
	Episodes    string `json:"episodes"`
	CreatedAt   string `json:"createdAt"`
	Status      string `json:"status"`
	ContainerID string `json:"containerId,omitempty"`
}

// printJobs writes jobs as a table or, with --json, as {"jobs": [...]}.
//
//	JOB                                   MODEL         EPISODES  STATUS   CREATED
//	0b6d4c1e-...                          North flank   2         exited   2026-10-01T09:12:44Z
func printJobs(w io.Writer, jobs []docker.JobInfo) error {
	if IsJSONOutput() {
		out := make([]jobJSON, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, jobJSON{
				ID:          j.ID,
				Model:       j.ModelName,
				Episodes:    j.Episodes,
				CreatedAt:   j.CreatedAt.UTC().Format(time.RFC3339),
				Status:      j.Status,
				ContainerID: j.ContainerID,
			})
		}
		return printJSON(w, map[string]interface{}{"jobs": out})
	}

	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs found.")
		return nil
	}
	fmt.Fprintf(w, "%-38s %-20s %-9s %-9s %s\n", "JOB", "MODEL", "EPISODES", "STATUS", "CREATED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%-38s %-20s %-9s %-9s %s\n",
			j.ID, j.ModelName, j.Episodes, j.Status, j.CreatedAt.UTC().Format(time.RFC3339))
	}
	return nil
}
