package search

import (
	"fmt"
	"sync"
	"time"

	"github.com/tanaka-yuki/glmsubset/pkg/log"
)

const (
	// printIntervalSec is the minimum gap between two printed status rows.
	printIntervalSec = 5
	// tickerInterval guarantees the reporter wakes on a timeout even when
	// no worker signals, so the cancel flag is still observed promptly.
	tickerInterval = 200 * time.Millisecond
)

// statusReporter owns a mutex + condition variable, woken on either a
// worker's periodic notify or a timeout, and prints a formatted progress
// row no more than once every printIntervalSec seconds. Entirely
// suppressed when quietly is set.
type statusReporter struct {
	mu      sync.Mutex
	cond    *sync.Cond
	done    bool
	quietly bool
	logger  log.Logger

	progress     *ProgressState
	startedAt    time.Time
	shouldCancel func() bool
}

func newStatusReporter(progress *ProgressState, quietly bool, logger log.Logger) *statusReporter {
	s := &statusReporter{progress: progress, quietly: quietly, logger: logger}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Notify wakes the reporter; called by workers at every progress
// checkpoint and by the reporter's own ticker.
func (s *statusReporter) Notify() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Stop tells the reporter loop to exit and wakes it one last time, so the
// footer prints promptly after the last worker joins.
func (s *statusReporter) Stop() {
	s.mu.Lock()
	s.done = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// run is the status reporter's loop, run on its own goroutine: print a header, then
// repeatedly wait for a notify-or-timeout wakeup and print a row at most
// every printIntervalSec seconds, until Stop is called. A background
// ticker goroutine guarantees periodic wakeups even if no worker ever
// calls Notify.
func (s *statusReporter) run() {
	s.startedAt = time.Now()
	if !s.quietly {
		s.printHeader()
	}

	stopTicker := make(chan struct{})
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Notify()
			case <-stopTicker:
				return
			}
		}
	}()
	defer close(stopTicker)

	lastPrint := time.Time{}
	for {
		s.mu.Lock()
		if !s.done {
			s.cond.Wait()
		}
		done := s.done
		s.mu.Unlock()

		if s.shouldCancel != nil && s.shouldCancel() {
			s.progress.RequestCancel()
		}

		if !s.quietly && time.Since(lastPrint).Seconds() >= printIntervalSec {
			s.printRow()
			lastPrint = time.Now()
		}
		if done {
			break
		}
	}

	if !s.quietly {
		s.printRow()
		s.printFooter()
	}
}

func (s *statusReporter) printHeader() {
	s.logger.Info("search started",
		log.TotalKey, int64(s.progress.Total()),
	)
}

func (s *statusReporter) printFooter() {
	s.logger.Info("search finished",
		log.ProgressKey, int64(s.progress.Completed()),
		log.TotalKey, int64(s.progress.Total()),
		log.DurationMsKey, time.Since(s.startedAt).Milliseconds(),
	)
}

func (s *statusReporter) printRow() {
	elapsed := time.Since(s.startedAt)
	completed := s.progress.Completed()
	total := s.progress.Total()
	percent := 0.0
	if total > 0 {
		percent = 100 * float64(completed) / float64(total)
	}
	s.logger.Info(formatStatusRow(elapsed, completed, total, percent))
}

// formatStatusRow renders "DDd HHh MMm SSs | completed/total | percent%".
func formatStatusRow(elapsed time.Duration, completed, total uint64, percent float64) string {
	d := int64(elapsed.Hours()) / 24
	h := int64(elapsed.Hours()) % 24
	mi := int64(elapsed.Minutes()) % 60
	se := int64(elapsed.Seconds()) % 60
	return fmt.Sprintf("%02dd %02dh %02dm %02ds | %d/%d | %.1f%%", d, h, mi, se, completed, total, percent)
}
