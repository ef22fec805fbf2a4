// Package progress tracks completion of fixed-size bulk operations and
// notifies registered observers after every unit of work.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
)

// Observer receives a snapshot after each completed unit of work.
// Observers run synchronously on the updating goroutine; panics are
// recovered and logged so one faulty observer cannot break the rest.
type Observer func(Snapshot)

// Snapshot is an immutable view of tracker state.
type Snapshot struct {
	TotalItems         int           `json:"total_items"`
	CompletedItems     int           `json:"completed_items"`
	SuccessfulItems    int           `json:"successful_items"`
	FailedItems        int           `json:"failed_items"`
	CurrentItem        string        `json:"current_item"`
	ProgressPercent    float64       `json:"progress_percent"`
	Elapsed            time.Duration `json:"elapsed_seconds"`
	EstimatedRemaining time.Duration `json:"estimated_remaining_seconds"`
}

// Tracker counts completed units of a bulk operation with a fixed,
// known total. All methods are safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	total     int
	completed int
	succeeded int
	failed    int
	current   string
	started   time.Time
	observers []Observer
	logger    zerolog.Logger
}

// NewTracker creates a tracker for an operation of total units.
// A negative total is treated as zero; a zero-unit operation is
// immediately complete.
func NewTracker(total int) *Tracker {
	if total < 0 {
		total = 0
	}
	return &Tracker{
		total:   total,
		started: time.Now(),
		logger:  logging.NewLogger("progress"),
	}
}

// AddObserver registers an observer for subsequent updates.
func (t *Tracker) AddObserver(obs Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, obs)
}

// Update records the completion of one unit of work. item names the
// unit for display, success records its outcome. Call exactly once per
// unit.
func (t *Tracker) Update(item string, success bool) {
	t.mu.Lock()
	t.completed++
	if success {
		t.succeeded++
	} else {
		t.failed++
	}
	t.current = item
	snap := t.snapshotLocked()
	observers := make([]Observer, len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	for _, obs := range observers {
		t.notify(obs, snap)
	}
}

// notify invokes a single observer, containing any panic.
func (t *Tracker) notify(obs Observer, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().
				Interface("panic", r).
				Str("current_item", snap.CurrentItem).
				Msg("Progress observer panicked")
		}
	}()
	obs(snap)
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// IsComplete reports whether every unit has been recorded.
func (t *Tracker) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed >= t.total
}

// Summary returns a one-line human readable description of progress.
func (t *Tracker) Summary() string {
	snap := t.Snapshot()
	return fmt.Sprintf("%d/%d completed (%.1f%%), %d succeeded, %d failed",
		snap.CompletedItems, snap.TotalItems, snap.ProgressPercent,
		snap.SuccessfulItems, snap.FailedItems)
}

func (t *Tracker) snapshotLocked() Snapshot {
	elapsed := time.Since(t.started)

	percent := 100.0
	if t.total > 0 {
		percent = float64(t.completed) / float64(t.total) * 100
	}

	var remaining time.Duration
	if t.completed > 0 && t.completed < t.total {
		perItem := elapsed / time.Duration(t.completed)
		remaining = perItem * time.Duration(t.total-t.completed)
	}

	return Snapshot{
		TotalItems:         t.total,
		CompletedItems:     t.completed,
		SuccessfulItems:    t.succeeded,
		FailedItems:        t.failed,
		CurrentItem:        t.current,
		ProgressPercent:    percent,
		Elapsed:            elapsed,
		EstimatedRemaining: remaining,
	}
}
