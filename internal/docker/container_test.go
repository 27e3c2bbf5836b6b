package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jobLabels builds a valid label map for a job created at the given time.
func jobLabels(id string, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelJobID:     id,
		LabelModelName: "New DFN",
		LabelEpisodes:  "1",
		LabelCreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}

func TestJobFromContainer(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	info, err := jobFromContainer("c0ffee", "exited", jobLabels("job-1", created))

	require.NoError(t, err)
	assert.Equal(t, "c0ffee", info.ContainerID)
	assert.Equal(t, "exited", info.Status)
	assert.Equal(t, "job-1", info.ID)

	_, err = jobFromContainer("c0ffee", "running", map[string]string{})
	assert.Error(t, err, "containers without job labels are rejected")
}

// TestSortJobs verifies newest-first ordering with ID as the tie breaker.
func TestSortJobs(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	jobs := []JobInfo{
		{ID: "b", CreatedAt: t1},
		{ID: "c", CreatedAt: t2},
		{ID: "a", CreatedAt: t1},
	}

	SortJobs(jobs)

	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
