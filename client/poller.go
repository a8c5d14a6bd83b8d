package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// DefaultPollInterval is the fixed sleep between job status queries in
// blocking mode.
const DefaultPollInterval = time.Second

// jobStatusFunc queries the backend for the current state of a job.
type jobStatusFunc func(ctx context.Context, jobID uuid.UUID) (*core.Job, error)

// poller drives a submitted ingestion job to a terminal state by repeated
// status queries. It is a small state machine over the job's status:
// submitted and running keep polling, completed returns the job, failed
// returns an IngestionError carrying the job metadata.
//
// There is no built-in timeout: a blocking wait runs until a terminal state
// is observed or ctx is cancelled. Callers wanting a bound supply it through
// the context.
type poller struct {
	getStatus jobStatusFunc
	interval  time.Duration

	// sleep is replaceable so tests can count polling sleeps.
	sleep func(ctx context.Context, d time.Duration) error
}

func newPoller(getStatus jobStatusFunc, interval time.Duration) *poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &poller{
		getStatus: getStatus,
		interval:  interval,
		sleep:     sleepContext,
	}
}

// wait blocks until the job reaches a terminal state.
func (p *poller) wait(ctx context.Context, job *core.Job) (*core.Job, error) {
	for {
		current, err := p.getStatus(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		switch current.Status {
		case core.JobStatusCompleted:
			return current, nil
		case core.JobStatusFailed:
			return nil, &IngestionError{JobID: current.ID, Metadata: current.Metadata}
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return nil, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
