/*
scheduler.go - Automated month close scheduler

PURPOSE:
  Periodically closes the previous month for every worker, freezing its
  payroll as a snapshot, so the figures paid out cannot drift when days
  are edited later.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Only the month before the current one is considered
  - Workers with a snapshot for that month are skipped
  - Workers whose month is not computed (incomplete settings) are logged
    and retried on the next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewMonthCloseScheduler(engine)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CloseMonth endpoint (manual close)
  - session/engine.go: CloseDue
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/shift-payroll/session"
)

// MonthCloseScheduler handles automated month-end snapshots.
type MonthCloseScheduler struct {
	Engine        *session.Engine
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// runMu guards lastRun; Stop holds mu while the loop drains.
	runMu   sync.Mutex
	lastRun time.Time
}

// NewMonthCloseScheduler creates a new scheduler.
func NewMonthCloseScheduler(engine *session.Engine) *MonthCloseScheduler {
	return &MonthCloseScheduler{
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the scheduler.
func (ms *MonthCloseScheduler) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if !ms.Enabled {
		log.Println("[MonthClose] Disabled, not starting")
		return
	}

	if ms.ticker != nil {
		return
	}

	// Fresh channel and ticker per start, so Start after Stop resumes ticking.
	ms.ticker = time.NewTicker(ms.CheckInterval)
	ms.stop = make(chan bool)
	ms.wg.Add(1)

	go ms.run(ms.ticker, ms.stop)

	log.Printf("[MonthClose] Started with check interval: %v", ms.CheckInterval)
}

// Stop stops the scheduler.
func (ms *MonthCloseScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.ticker != nil {
		ms.ticker.Stop()
		close(ms.stop)
		ms.wg.Wait()
		ms.ticker = nil
		log.Println("[MonthClose] Stopped")
	}
}

func (ms *MonthCloseScheduler) run(ticker *time.Ticker, stop <-chan bool) {
	defer ms.wg.Done()

	// Run immediately on start
	ms.RunNow()

	for {
		select {
		case <-ticker.C:
			ms.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow performs one check synchronously and returns the snapshots taken.
func (ms *MonthCloseScheduler) RunNow() []session.Snapshot {
	ctx := context.Background()

	closed, skipped, err := ms.Engine.CloseDue(ctx)
	if err != nil {
		log.Printf("[MonthClose] Error closing months: %v", err)
	}
	for id, reason := range skipped {
		log.Printf("[MonthClose] Skipped %s: %v", id, reason)
	}
	if len(closed) > 0 {
		log.Printf("[MonthClose] Completed: %d closed, %d skipped", len(closed), len(skipped))
	}

	ms.runMu.Lock()
	ms.lastRun = ms.Engine.Now()
	ms.runMu.Unlock()
	return closed
}

// NextRunTime returns when the next check happens, or the zero time when
// the scheduler has not run yet.
func (ms *MonthCloseScheduler) NextRunTime() time.Time {
	ms.runMu.Lock()
	defer ms.runMu.Unlock()
	if ms.lastRun.IsZero() {
		return time.Time{}
	}
	return ms.lastRun.Add(ms.CheckInterval)
}
