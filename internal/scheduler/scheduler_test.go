package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/site"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingJob records its runs.
type countingJob struct {
	name string
	runs atomic.Int32
	err  error
	// block holds Run until the context is cancelled.
	block bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) (string, error) {
	j.runs.Add(1)
	if j.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "ok", j.err
}

func TestValidateCron(t *testing.T) {
	assert.NoError(t, ValidateCron("0 */15 * * * *"))
	assert.NoError(t, ValidateCron("@hourly"))
	assert.Error(t, ValidateCron("*/15 * * * *"), "5-field expressions lack the seconds field")
	assert.Error(t, ValidateCron("nonsense"))

	_, err := New("bad")
	assert.Error(t, err)

	assert.ErrorIs(t, ValidateCron("0 0 0 30 2 *"), ErrNeverFires)
	_, err = New("0 0 0 31 4 *")
	assert.ErrorIs(t, err, ErrNeverFires)
}

// exhaustedSchedule has no further activations.
type exhaustedSchedule struct{}

func (exhaustedSchedule) Next(time.Time) time.Time { return time.Time{} }

func TestScheduler_ExhaustedScheduleStopsLoop(t *testing.T) {
	job := &countingJob{name: "tick"}
	s, err := New("@hourly", job)
	require.NoError(t, err)
	s.schedule = exhaustedSchedule{}

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Zero(t, job.runs.Load())
	assert.True(t, s.Status().NextRun.IsZero())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	job := &countingJob{name: "tick"}
	s, err := New("* * * * * *", job)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	require.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	status := s.Status()
	assert.True(t, status.Running)
	assert.False(t, status.NextRun.IsZero())

	s.Stop()
	assert.False(t, s.Status().Running)

	// A stopped scheduler can be started again.
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestScheduler_RunOnStart(t *testing.T) {
	job := &countingJob{name: "warm"}
	s, err := New("@yearly", job)
	require.NoError(t, err)

	require.NoError(t, s.WithRunOnStart(true).Start(context.Background()))
	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	job := &countingJob{name: "slow", block: true}
	s, err := New("@yearly", job)
	require.NoError(t, err)

	require.NoError(t, s.WithRunOnStart(true).Start(context.Background()))
	require.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestScheduler_RunNowContinuesPastFailures(t *testing.T) {
	failing := &countingJob{name: "first", err: errors.New("boom")}
	second := &countingJob{name: "second"}
	s, err := New("@yearly", failing, second)
	require.NoError(t, err)

	results := s.RunNow(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, "boom", results[0].Error)
	assert.Equal(t, "ok", results[1].Result)
	assert.Empty(t, results[1].Error)
	assert.Equal(t, int32(1), second.runs.Load())

	status := s.Status()
	assert.False(t, status.LastRun.IsZero())
	assert.Len(t, status.Results, 2)
}

func testSites(t *testing.T) []*site.Site {
	t.Helper()
	var out []*site.Site
	for _, id := range []string{"still", "move"} {
		st, err := site.New(config.SiteConfig{
			ID:            id,
			Name:          id,
			BaseURL:       "https://" + id + ".example",
			Locales:       []string{"en"},
			DefaultLocale: "en",
		})
		require.NoError(t, err)
		out = append(out, st)
	}
	return out
}

func TestWarmJob(t *testing.T) {
	var (
		mu      sync.Mutex
		visited []string
	)
	job := NewWarmJobFunc(testSites(t), func(_ context.Context, st *site.Site) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		visited = append(visited, st.ID)
		if st.ID == "still" {
			return 0, errors.New("builder down")
		}
		return 7, nil
	})

	out, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site still: builder down")
	assert.Equal(t, "warmed 7 paths across 2 sites", out)
	assert.Equal(t, []string{"still", "move"}, visited, "a failing site does not stop the others")
}

type fakeContentPurger struct {
	n   int64
	err error
}

func (f fakeContentPurger) Purge(context.Context) (int64, error) { return f.n, f.err }

type fakeCommercePurger int

func (f fakeCommercePurger) Purge() int { return int(f) }

func TestPurgeJob(t *testing.T) {
	out, err := NewPurgeJob(fakeContentPurger{n: 3}, fakeCommercePurger(2)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "purged 3 content and 2 storefront entries", out)

	_, err = NewPurgeJob(fakeContentPurger{err: errors.New("db gone")}, nil).Run(context.Background())
	assert.EqualError(t, err, "db gone")

	out, err = NewPurgeJob(nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "purged 0 content and 0 storefront entries", out)
}
