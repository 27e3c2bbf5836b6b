// Package docker runs the DFN calculation engine in Docker containers.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Job labels on engine containers (the labels are the only record of
//     which jobs were started)
//   - The container Dispatcher used when engine.mode is "docker", which
//     pulls the engine image on first use
//   - Listing and removing job containers
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
