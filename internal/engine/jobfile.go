package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// JobFileName is the name of the job description inside a job directory.
const JobFileName = "job.toml"

// EncodeJob writes job as TOML. Unset reals are written as nan.
func EncodeJob(w io.Writer, job *Job) error {
	if err := toml.NewEncoder(w).Encode(job); err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	return nil
}

// DecodeJob reads a job written by EncodeJob.
func DecodeJob(r io.Reader) (*Job, error) {
	var job Job
	if _, err := toml.NewDecoder(r).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

// WriteJobDir creates <root>/<job id>/job.toml and returns the job
// directory.
func WriteJobDir(root string, job *Job) (string, error) {
	dir := filepath.Join(root, job.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create job directory %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := EncodeJob(&buf, job); err != nil {
		return "", err
	}
	path := filepath.Join(dir, JobFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write job file %s: %w", path, err)
	}
	return dir, nil
}

// FileDispatcher hands jobs over by writing them into a spool directory
// that an engine process polls.
type FileDispatcher struct {
	Root string
}

// Dispatch writes the job directory.
func (d *FileDispatcher) Dispatch(ctx context.Context, job *Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := WriteJobDir(d.Root, job); err != nil {
		return model.WrapCLIError(model.ExitEngineUnavailable, "cannot write to the engine spool directory", err)
	}
	return nil
}
