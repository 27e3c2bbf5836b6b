package engine

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

func TestExecutor_RunNormalizesAndSnapshots(t *testing.T) {
	pkg := model.NewArgumentPackage()
	pkg.ModelName = "   "
	pkg.Mechanical.Porosity = model.DualSource{Property: "props/phi", GridResult: "case/phi", Default: 0.1}

	var got *Job
	src := NewSource(DispatcherFunc(func(_ context.Context, job *Job) error {
		got = job
		return nil
	}), nil)
	src.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600)) }

	require.NoError(t, src.Executor(pkg).Run(context.Background()))
	require.NotNil(t, got)

	assert.Equal(t, model.DefaultModelName, pkg.ModelName, "blank model name is replaced in the package")
	assert.Equal(t, model.PropertyRef(""), pkg.Mechanical.Porosity.Property)
	assert.Len(t, got.ID, 36)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
	assert.Equal(t, 11, got.CreatedAt.Hour())

	// The job holds a snapshot, not the live package.
	pkg.Episodes[0].Duration = 3
	assert.True(t, math.IsNaN(got.Package.Episodes[0].Duration))
}

func TestExecutor_RunErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode model.ExitCode
	}{
		{"plain error becomes engine failure", errors.New("boom"), model.ExitEngineFailed},
		{"exit code is kept", model.NewCLIError(model.ExitEngineUnavailable, "no daemon"), model.ExitEngineUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			src := NewSource(DispatcherFunc(func(context.Context, *Job) error { return tt.err }), zap.New(core))

			err := src.Executor(model.NewArgumentPackage()).Run(context.Background())

			var cliErr *model.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, tt.wantCode, cliErr.Code)
			assert.Equal(t, 1, logs.FilterMessage("job dispatch failed").Len())
		})
	}
}

func TestEncodeDecodeJob(t *testing.T) {
	pkg := model.NewArgumentPackage()
	pkg.Grid = "models/Grid 1"
	pkg.Mechanical.YoungsMod.SetGridResult("case/E")
	pkg.AddEpisode()

	job := &Job{ID: "job-1", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Package: *pkg}

	var buf bytes.Buffer
	require.NoError(t, EncodeJob(&buf, job))
	assert.Contains(t, buf.String(), "nan", "unset reals survive as nan")

	back, err := DecodeJob(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(job, back, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("job round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFileDispatcher(t *testing.T) {
	root := t.TempDir()
	d := &FileDispatcher{Root: root}
	job := &Job{ID: "abc", CreatedAt: time.Now().UTC(), Package: *model.NewArgumentPackage()}

	require.NoError(t, d.Dispatch(context.Background(), job))

	data, err := os.ReadFile(filepath.Join(root, "abc", JobFileName))
	require.NoError(t, err)
	back, err := DecodeJob(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "abc", back.ID)
	assert.Equal(t, model.DefaultModelName, back.Package.ModelName)
}

func TestFileDispatcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &FileDispatcher{Root: t.TempDir()}
	err := d.Dispatch(ctx, &Job{ID: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
