package docker

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// pingTimeout bounds the daemon health check made before every dispatch.
const pingTimeout = 5 * time.Second

// windowsPipe is the Docker Desktop named pipe on Windows.
const windowsPipe = `//./pipe/docker_engine`

// Client is the Docker connection used to run engine jobs. Every failure to
// reach the daemon is reported as ExitEngineUnavailable.
type Client struct {
	inner *client.Client
}

// NewClient connects to $DOCKER_HOST, or to the first Docker socket found
// for the current platform.
func NewClient() (*Client, error) {
	host := os.Getenv("DOCKER_HOST")
	if host == "" {
		detected, err := detectHost()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitEngineUnavailable, "Docker socket not found", err)
		}
		host = detected
	}

	c, err := client.NewClientWithOpts(client.WithHost(host), client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitEngineUnavailable,
			fmt.Sprintf("failed to create Docker client for host %q", host),
			err,
		)
	}
	return &Client{inner: c}, nil
}

// socketCandidates lists the Unix socket paths probed on goos, most
// preferred first.
func socketCandidates(goos, home string) []string {
	paths := []string{"/var/run/docker.sock"}
	if goos == "darwin" && home != "" {
		// Recent Docker Desktop releases only create the per-user socket.
		paths = append(paths, filepath.Join(home, ".docker", "run", "docker.sock"))
	}
	return paths
}

func detectHost() (string, error) {
	switch runtime.GOOS {
	case "windows":
		// Named pipes cannot be stat'ed; dial instead.
		conn, err := net.DialTimeout("pipe", windowsPipe, time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", windowsPipe, err)
		}
		conn.Close()
		return "npipe://" + windowsPipe, nil
	case "linux", "darwin":
		home, _ := os.UserHomeDir()
		paths := socketCandidates(runtime.GOOS, home)
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return "unix://" + p, nil
			}
		}
		return "", fmt.Errorf("no Docker socket at any of %v; is Docker running?", paths)
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Ping checks that the daemon answers within pingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(ctx); err != nil {
		return model.WrapCLIError(
			model.ExitEngineUnavailable,
			"Docker daemon is not responding; is Docker running?",
			err,
		)
	}
	return nil
}

// EnsureImage pulls ref unless the daemon already has it. The pull progress
// stream is drained and discarded.
func (c *Client) EnsureImage(ctx context.Context, ref string, log *zap.Logger) error {
	if _, err := c.inner.ImageInspect(ctx, ref); err == nil {
		return nil
	} else if !client.IsErrNotFound(err) {
		return model.WrapCLIError(model.ExitEngineUnavailable, fmt.Sprintf("failed to inspect engine image %q", ref), err)
	}

	log.Info("pulling engine image", zap.String("image", ref))
	rc, err := c.inner.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(model.ExitEngineUnavailable, fmt.Sprintf("failed to pull engine image %q", ref), err)
	}
	defer rc.Close()
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return model.WrapCLIError(model.ExitEngineUnavailable, fmt.Sprintf("failed to pull engine image %q", ref), err)
	}
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the underlying SDK client.
func (c *Client) Inner() *client.Client {
	return c.inner
}
