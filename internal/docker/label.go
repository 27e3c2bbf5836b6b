package docker

import (
	"fmt"
	"strings"
	"time"

	"github.com/shinji-kodama/dfmgen/internal/engine"
)

// Label key constants define the Docker label keys that tag engine
// containers with their job metadata. Listing jobs needs nothing but these
// labels; there is no separate job database.
//
// All keys share the "dfmgen." prefix to avoid collisions with labels set
// by other tools.
const (
	// LabelPrefix is the common prefix for all dfmgen labels.
	LabelPrefix = "dfmgen."

	// LabelManagedBy identifies containers started by dfmgen.
	// Key: "dfmgen.managed-by", Value: always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelJobID stores the job UUID.
	LabelJobID = LabelPrefix + "job-id"

	// LabelModelName stores the model name of the dispatched package.
	LabelModelName = LabelPrefix + "model-name"

	// LabelEpisodes stores the number of deformation episodes, for display.
	LabelEpisodes = LabelPrefix + "episodes"

	// LabelCreatedAt stores the RFC3339 dispatch timestamp.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "dfmgen"

// JobInfo is the job metadata recovered from a container's labels.
type JobInfo struct {
	ID        string
	ModelName string
	Episodes  string
	CreatedAt time.Time

	// ContainerID and Status are filled from the container, not labels.
	ContainerID string
	Status      string
}

// BuildLabels constructs the label map applied to the container that runs
// job.
func BuildLabels(job *engine.Job) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelJobID:     job.ID,
		LabelModelName: job.Package.ModelName,
		LabelEpisodes:  fmt.Sprintf("%d", job.Package.EpisodeCount()),
		// UTC keeps the value independent of the host time zone.
		LabelCreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs job metadata from container labels. It is the
// inverse of BuildLabels. All missing required labels are reported at once.
func ParseLabels(labels map[string]string) (*JobInfo, error) {
	requiredKeys := []string{
		LabelManagedBy,
		LabelJobID,
		LabelModelName,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &JobInfo{
		ID:        labels[LabelJobID],
		ModelName: labels[LabelModelName],
		Episodes:  labels[LabelEpisodes],
		CreatedAt: createdAt,
	}, nil
}

// ContainerName returns the container name used for a job.
func ContainerName(jobID string) string {
	return "dfmgen-" + jobID
}
