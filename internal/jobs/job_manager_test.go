package jobs

import (
	"context"
	"errors"
	"io"
	"items-api/internal/ratelimit"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name    string
	runs    atomic.Int32
	stopped chan struct{}
	err     error
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return time.Millisecond }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.err != nil {
		return j.err
	}
	<-ctx.Done()
	close(j.stopped)
	return ctx.Err()
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobManagerStartAndShutdown(t *testing.T) {
	jm := NewJobManager(newTestLogger())
	job := &countingJob{name: "a", stopped: make(chan struct{})}
	jm.Register(job)

	jm.Start(context.Background())
	jm.Start(context.Background())

	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jm.Shutdown(ctx)

	select {
	case <-job.stopped:
	default:
		t.Fatal("job was not stopped")
	}
	assert.Equal(t, int32(1), job.runs.Load(), "second Start must not launch a duplicate")
}

func TestJobManagerFailedJobDoesNotBlockShutdown(t *testing.T) {
	jm := NewJobManager(newTestLogger())
	jm.Register(&countingJob{name: "broken", err: errors.New("boom")})

	jm.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jm.Shutdown(ctx)
	assert.NoError(t, ctx.Err())
}

func TestRateLimitSweepJob(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(10, time.Millisecond)
	_, err := limiter.Allow(context.Background(), "198.51.100.1")
	require.NoError(t, err)
	require.Equal(t, 1, limiter.Len())

	job := NewRateLimitSweepJob(limiter, 5*time.Millisecond)
	assert.Equal(t, "ratelimit-sweep", job.Name())

	jm := NewJobManager(newTestLogger())
	jm.Register(job)
	jm.Start(context.Background())

	assert.Eventually(t, func() bool { return limiter.Len() == 0 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jm.Shutdown(ctx)
}
