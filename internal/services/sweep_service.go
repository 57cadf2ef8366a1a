package services

import (
	"context"
	"log"
	"sync"
	"time"

	"facture-backend/internal/metrics"
	"facture-backend/internal/timeutil"
)

// OverdueMarker is the storage operation the sweep needs: a conditional
// write that only touches invoices still pending at write time.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// SweepService periodically reconciles invoice statuses: pending invoices
// past their due date become overdue. The write is conditioned on the
// status at write time, so an invoice marked paid between two sweeps is
// never reverted, and re-running the sweep is a no-op.
type SweepService struct {
	repo     OverdueMarker
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewSweepService(repo OverdueMarker, interval time.Duration) *SweepService {
	return &SweepService{
		repo:     repo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep loop. One pass runs immediately so a
// restart does not delay reconciliation by a full interval.
func (s *SweepService) Start() {
	log.Printf("[Sweep] Starting overdue sweep (interval: %s)", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.RunOnce(context.Background())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stopChan:
				log.Println("[Sweep] Stopping overdue sweep...")
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight pass to finish
func (s *SweepService) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// RunOnce executes a single sweep pass
func (s *SweepService) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.repo.MarkOverdue(ctx, timeutil.Now())
	if err != nil {
		log.Printf("[Sweep] Overdue sweep failed: %v", err)
		return
	}

	if n > 0 {
		metrics.OverdueSweepTransitions.Add(float64(n))
		log.Printf("[Sweep] Marked %d invoice(s) overdue", n)
	}
}
