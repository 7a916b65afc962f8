package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type blockingJob struct {
	runs    atomic.Int32
	release chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	<-j.release
	return nil
}

func TestAddJobRejectsBadSpecAndDuplicates(t *testing.T) {
	s := NewCronScheduler()
	job := &blockingJob{release: make(chan struct{})}
	require.Error(t, s.AddJob(job, "not a spec"))
	require.NoError(t, s.AddJob(job, "0 4 * * *"))
	require.Error(t, s.AddJob(job, "0 5 * * *"))
	require.Equal(t, []string{"blocking"}, s.Jobs())
}

func TestWrapSkipsOverlappingRuns(t *testing.T) {
	s := NewCronScheduler()
	job := &blockingJob{release: make(chan struct{})}
	run := s.wrap(job, "@manual")

	done := make(chan struct{})
	go func() {
		run()
		close(done)
	}()
	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	// second invocation returns immediately while the first is still running
	run()
	require.EqualValues(t, 1, job.runs.Load())

	close(job.release)
	<-done
	run()
	require.EqualValues(t, 2, job.runs.Load())
}
