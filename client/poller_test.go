package client

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// scriptedStatus returns the scripted job statuses in order, holding the
// last one once the script runs out.
func scriptedStatus(jobID uuid.UUID, script ...core.JobStatus) (jobStatusFunc, *int) {
	polls := 0
	return func(ctx context.Context, id uuid.UUID) (*core.Job, error) {
		i := polls
		if i >= len(script) {
			i = len(script) - 1
		}
		polls++
		job := &core.Job{ID: jobID, Status: script[i]}
		if script[i] == core.JobStatusFailed {
			job.Metadata = map[string]any{"error": "embedding endpoint unreachable"}
		}
		return job, nil
	}, &polls
}

func TestPollerSleepsBetweenPolls(t *testing.T) {
	jobID := uuid.New()
	getStatus, polls := scriptedStatus(jobID,
		core.JobStatusRunning, core.JobStatusRunning, core.JobStatusCompleted)

	p := newPoller(getStatus, time.Second)
	sleeps := 0
	p.sleep = func(ctx context.Context, d time.Duration) error {
		assert.Equal(t, time.Second, d)
		sleeps++
		return nil
	}

	job, err := p.wait(context.Background(), &core.Job{ID: jobID, Status: core.JobStatusPending})
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, job.Status)

	// Running twice then completed: three polls, a sleep after each
	// non-terminal observation and none after the terminal one.
	assert.Equal(t, 3, *polls)
	assert.Equal(t, 2, sleeps)
}

func TestPollerFailureCarriesJobMetadata(t *testing.T) {
	jobID := uuid.New()
	getStatus, _ := scriptedStatus(jobID, core.JobStatusRunning, core.JobStatusFailed)

	p := newPoller(getStatus, time.Millisecond)
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	_, err := p.wait(context.Background(), &core.Job{ID: jobID})
	var ingErr *IngestionError
	require.ErrorAs(t, err, &ingErr)
	assert.Equal(t, jobID, ingErr.JobID)
	assert.Equal(t, "embedding endpoint unreachable", ingErr.Metadata["error"])
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	jobID := uuid.New()
	getStatus, _ := scriptedStatus(jobID, core.JobStatusRunning)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPoller(getStatus, 10*time.Millisecond)
	_, err := p.wait(ctx, &core.Job{ID: jobID})
	assert.ErrorIs(t, err, context.Canceled)
}
