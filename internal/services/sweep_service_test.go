package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeOverdueMarker counts sweep passes and returns a scripted transition
// count once, then zero (matching the conditional SQL update)
type fakeOverdueMarker struct {
	mu      sync.Mutex
	calls   int
	pending int
	err     error
}

func (f *fakeOverdueMarker) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.calls++
	n := f.pending
	f.pending = 0
	return n, nil
}

func (f *fakeOverdueMarker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweepRunOnce(t *testing.T) {
	marker := &fakeOverdueMarker{pending: 3}
	svc := NewSweepService(marker, time.Hour)

	svc.RunOnce(context.Background())
	assert.Equal(t, 1, marker.callCount())
	assert.Zero(t, marker.pending)
}

func TestSweepRunOnceIdempotent(t *testing.T) {
	marker := &fakeOverdueMarker{pending: 2}
	svc := NewSweepService(marker, time.Hour)

	svc.RunOnce(context.Background())
	svc.RunOnce(context.Background())

	// Second pass finds nothing to transition and changes nothing
	assert.Equal(t, 2, marker.callCount())
	assert.Zero(t, marker.pending)
}

func TestSweepSurvivesRepoError(t *testing.T) {
	marker := &fakeOverdueMarker{err: errors.New("connection refused")}
	svc := NewSweepService(marker, time.Hour)

	// Must not panic; the next tick retries
	svc.RunOnce(context.Background())
}

func TestSweepStartRunsImmediatePass(t *testing.T) {
	marker := &fakeOverdueMarker{pending: 1}
	svc := NewSweepService(marker, time.Hour)

	svc.Start()
	defer svc.Stop()

	assert.Eventually(t, func() bool {
		return marker.callCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSweepStopWaitsForLoop(t *testing.T) {
	marker := &fakeOverdueMarker{}
	svc := NewSweepService(marker, 10*time.Millisecond)

	svc.Start()
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
