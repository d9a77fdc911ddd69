package engine

import (
	"sort"
	"sync"
	"time"
)

// DefaultCooldown is the debounce window for scheduled recalculations.
const DefaultCooldown = 350 * time.Millisecond

// Scheduler coalesces bursts of recalculation triggers into single runs.
// Edits arrive in rapid succession; each one schedules a run, but the run
// only fires after the cooldown window closes. Triggers arriving while a
// run is in flight mark it pending and the run repeats once.
//
// The callback executes on the scheduler's own goroutine.
type Scheduler struct {
	mu       sync.Mutex
	run      func(reasons []string)
	cooldown time.Duration
	timer    *time.Timer
	reasons  map[string]struct{}
	running  bool
	pending  bool
	closed   bool
}

// NewScheduler creates a scheduler invoking run after each cooldown window.
// A zero or negative cooldown falls back to DefaultCooldown.
func NewScheduler(run func(reasons []string), cooldown time.Duration) *Scheduler {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Scheduler{
		run:      run,
		cooldown: cooldown,
		reasons:  map[string]struct{}{},
	}
}

// Schedule requests a recalculation, restarting nothing if one is already
// queued: the first trigger of a burst opens the window and the rest only
// add their reasons.
func (s *Scheduler) Schedule(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.addReason(reason)
	if s.running {
		s.pending = true
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.cooldown, s.fire)
	}
}

// Force requests an immediate recalculation, skipping the cooldown.
// A run already in flight still finishes first.
func (s *Scheduler) Force(reason string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.addReason(reason)
	if s.running {
		s.pending = true
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.fire()
}

// PeekReasons returns the reasons queued for the next run, sorted.
func (s *Scheduler) PeekReasons() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedReasons(s.reasons)
}

// Close stops the scheduler. A queued run is cancelled; an in-flight run
// finishes but does not repeat.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) addReason(reason string) {
	if reason != "" {
		s.reasons[reason] = struct{}{}
	}
}

// fire drains the reason set and invokes the callback, repeating once when
// triggers arrived mid-run.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.closed || s.running {
		s.pending = s.running
		s.mu.Unlock()
		return
	}
	s.running = true
	s.timer = nil
	reasons := sortedReasons(s.reasons)
	s.reasons = map[string]struct{}{}
	s.mu.Unlock()

	s.run(reasons)

	s.mu.Lock()
	s.running = false
	rerun := s.pending && !s.closed
	s.pending = false
	if rerun && s.timer == nil {
		s.timer = time.AfterFunc(0, s.fire)
	}
	s.mu.Unlock()
}

func sortedReasons(set map[string]struct{}) []string {
	reasons := make([]string, 0, len(set))
	for r := range set {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}
