// container.go runs engine jobs in Docker containers and lists the jobs
// that were started that way.
//
// Each job gets its own container named after the job ID. The job directory
// written by engine.WriteJobDir is bind-mounted at /job, and the engine
// image receives the path of the job description as its only argument. The
// container is kept after it exits so that "dfmgen jobs" can report it;
// RemoveJob deletes it.
package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/engine"
	"github.com/shinji-kodama/dfmgen/internal/model"
)

// JobMountPath is where the job directory appears inside the container.
const JobMountPath = "/job"

// Dispatcher is an engine.Dispatcher that runs each job in a container of
// Image and waits for it to exit.
type Dispatcher struct {
	Client *Client

	// Image is the engine image, e.g. "ghcr.io/example/dfm-engine:latest".
	Image string

	// SpoolDir is the host directory that receives job directories.
	SpoolDir string

	Logger *zap.Logger
}

// Dispatch implements engine.Dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, job *engine.Job) error {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := d.Client.Ping(ctx); err != nil {
		return err
	}
	if err := d.Client.EnsureImage(ctx, d.Image, log); err != nil {
		return err
	}

	dir, err := engine.WriteJobDir(d.SpoolDir, job)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to prepare job directory", err)
	}
	// Bind mounts need an absolute host path.
	hostDir, err := filepath.Abs(dir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve job directory", err)
	}

	name := ContainerName(job.ID)
	resp, err := d.Client.Inner().ContainerCreate(ctx,
		&container.Config{
			Image:      d.Image,
			Cmd:        []string{JobMountPath + "/" + engine.JobFileName},
			WorkingDir: JobMountPath,
			Labels:     BuildLabels(job),
		},
		&container.HostConfig{
			Binds: []string{hostDir + ":" + JobMountPath},
		},
		nil, nil, name,
	)
	if err != nil {
		return model.WrapCLIError(
			model.ExitEngineUnavailable,
			fmt.Sprintf("failed to create engine container %q from image %q", name, d.Image),
			err,
		)
	}
	log.Debug("engine container created", zap.String("container", resp.ID), zap.String("dir", hostDir))

	if err := d.Client.Inner().ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return model.WrapCLIError(
			model.ExitEngineUnavailable,
			fmt.Sprintf("failed to start engine container %q", name),
			err,
		)
	}

	statusCh, errCh := d.Client.Inner().ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return model.WrapCLIError(
			model.ExitEngineFailed,
			fmt.Sprintf("failed waiting for engine container %q", name),
			err,
		)
	case status := <-statusCh:
		if status.StatusCode != 0 {
			msg := fmt.Sprintf("engine container %q exited with status %d", name, status.StatusCode)
			if status.Error != nil && status.Error.Message != "" {
				msg += ": " + status.Error.Message
			}
			return model.NewCLIError(model.ExitEngineFailed, msg)
		}
	}

	log.Info("engine container finished", zap.String("container", name))
	return nil
}

// ListJobs returns every job container started by dfmgen, including exited
// ones, newest first. Containers with unreadable labels are skipped.
func ListJobs(ctx context.Context, cli *Client) ([]JobInfo, error) {
	// Filtering on the daemon side avoids listing unrelated containers.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitEngineUnavailable,
			"failed to list Docker containers",
			err,
		)
	}

	jobs := make([]JobInfo, 0, len(containers))
	for _, c := range containers {
		info, err := jobFromContainer(c.ID, c.State, c.Labels)
		if err != nil {
			continue
		}
		jobs = append(jobs, *info)
	}
	SortJobs(jobs)
	return jobs, nil
}

// jobFromContainer combines the label metadata of a container with its
// runtime state.
func jobFromContainer(id, state string, labels map[string]string) (*JobInfo, error) {
	info, err := ParseLabels(labels)
	if err != nil {
		return nil, err
	}
	info.ContainerID = id
	info.Status = state
	return info, nil
}

// SortJobs orders jobs newest first, breaking ties by ID.
func SortJobs(jobs []JobInfo) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
}

// RemoveJob force-removes the container of a job.
func RemoveJob(ctx context.Context, cli *Client, jobID string) error {
	name := ContainerName(jobID)
	err := cli.Inner().ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil {
		return model.WrapCLIError(
			model.ExitEngineUnavailable,
			fmt.Sprintf("failed to remove container %q", name),
			err,
		)
	}
	return nil
}
