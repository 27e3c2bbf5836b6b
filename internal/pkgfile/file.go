package pkgfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// DefaultFileName is the package file name used when none is configured.
const DefaultFileName = "dfn-package.yaml"

// lockTimeout is how long Load and Save wait for the file lock.
const lockTimeout = 5 * time.Second

// Load reads a YAML package file. Fields missing from the file keep their
// defaults, and the dual-source exclusion rule is re-applied.
//
// Returns a CLIError with ExitPackageNotFound if the file does not exist.
func Load(path string) (*model.ArgumentPackage, error) {
	lock, err := acquire(path, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.WrapCLIError(
				model.ExitPackageNotFound,
				fmt.Sprintf("argument package not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read argument package: %w", err)
	}

	return Decode(data, path)
}

// Decode parses YAML package bytes over the defaults. name is used in
// error messages only.
func Decode(data []byte, name string) (*model.ArgumentPackage, error) {
	pkg := model.NewArgumentPackage()
	// Episodes in the file replace the default history rather than being
	// merged into it element by element.
	pkg.Episodes = nil

	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, pkg); err != nil {
			return nil, fmt.Errorf("failed to parse argument package at %s: %w", name, err)
		}
	}
	if pkg.Episodes == nil {
		pkg.Episodes = model.NewArgumentPackage().Episodes
	}

	pkg.Normalize()
	return pkg, nil
}

// Encode renders a package as YAML.
func Encode(pkg *model.ArgumentPackage) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(pkg); err != nil {
		return nil, fmt.Errorf("failed to encode argument package: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode argument package: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes pkg to path as YAML, creating parent directories if they
// don't exist. The write holds the exclusive file lock.
func Save(path string, pkg *model.ArgumentPackage) error {
	data, err := Encode(pkg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lock, err := acquire(path, true)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write argument package to %s: %w", path, err)
	}
	return nil
}

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// acquire takes the shared (read) or exclusive (write) lock on path.
func acquire(path string, exclusive bool) (*flock.Flock, error) {
	lockPath := LockPath(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(ctx, 50*time.Millisecond)
	} else {
		locked, err = lock.TryRLockContext(ctx, 50*time.Millisecond)
	}
	if err != nil || !locked {
		return nil, model.WrapCLIError(
			model.ExitLocked,
			fmt.Sprintf("argument package %s is locked by another process", path),
			err,
		)
	}
	return lock, nil
}

// Find returns the package file of a project directory. Candidates in
// priority order are .dfmgen/package.yaml and dfn-package.yaml.
func Find(projectPath string) (string, error) {
	candidates := []string{
		filepath.Join(projectPath, ".dfmgen", "package.yaml"),
		filepath.Join(projectPath, DefaultFileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(
		model.ExitPackageNotFound,
		fmt.Sprintf("argument package not found in %s (searched .dfmgen/package.yaml and %s)", projectPath, DefaultFileName),
	)
}
