package jobs

import (
	"context"
	"items-api/internal/ratelimit"
	"time"
)

// RateLimitSweepJob drops expired windows from the in-memory limiter so idle
// clients do not accumulate.
type RateLimitSweepJob struct {
	limiter  *ratelimit.MemoryLimiter
	interval time.Duration
}

func NewRateLimitSweepJob(limiter *ratelimit.MemoryLimiter, interval time.Duration) *RateLimitSweepJob {
	return &RateLimitSweepJob{limiter: limiter, interval: interval}
}

func (j *RateLimitSweepJob) Name() string {
	return "ratelimit-sweep"
}

func (j *RateLimitSweepJob) Interval() time.Duration {
	return j.interval
}

func (j *RateLimitSweepJob) Run(ctx context.Context) error {
	return j.limiter.Run(ctx, j.interval)
}
