package game

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task.
type TaskID int

type task struct {
	id       TaskID
	name     string
	due      time.Time
	interval time.Duration // zero for one-shot tasks
	fn       func()
}

// Scheduler runs wall-clock timers on the simulation goroutine. Nothing fires
// on its own: tasks run only inside Advance, so callbacks never race the
// simulation step.
type Scheduler struct {
	clock     Clock
	nextID    TaskID
	tasks     map[TaskID]*task
	suspended time.Time // zero while running
}

// NewScheduler creates an empty scheduler reading time from clock.
func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock, tasks: make(map[TaskID]*task)}
}

func (s *Scheduler) add(name string, delay, interval time.Duration, fn func()) TaskID {
	s.nextID++
	s.tasks[s.nextID] = &task{
		id:       s.nextID,
		name:     name,
		due:      s.clock.Now().Add(delay),
		interval: interval,
		fn:       fn,
	}
	return s.nextID
}

// Every schedules fn to run each interval, starting one interval from now.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) TaskID {
	return s.add(name, interval, interval, fn)
}

// After schedules fn to run once after delay.
func (s *Scheduler) After(name string, delay time.Duration, fn func()) TaskID {
	return s.add(name, delay, 0, fn)
}

// Cancel removes a task. Cancelling an unknown or finished task is a no-op.
func (s *Scheduler) Cancel(id TaskID) {
	delete(s.tasks, id)
}

// CancelAll drops every pending task and lifts any suspension.
func (s *Scheduler) CancelAll() {
	clear(s.tasks)
	s.suspended = time.Time{}
}

// Suspend freezes the clock for every task at now. Advance runs nothing
// until Resume.
func (s *Scheduler) Suspend(now time.Time) {
	if s.suspended.IsZero() {
		s.suspended = now
	}
}

// Resume pushes every deadline back by the time spent suspended and returns
// that duration.
func (s *Scheduler) Resume(now time.Time) time.Duration {
	if s.suspended.IsZero() {
		return 0
	}
	d := now.Sub(s.suspended)
	s.suspended = time.Time{}
	for _, t := range s.tasks {
		t.due = t.due.Add(d)
	}
	return d
}

// Suspended reports whether the scheduler is frozen.
func (s *Scheduler) Suspended() bool {
	return !s.suspended.IsZero()
}

// Pending returns the number of scheduled tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Has reports whether id is still scheduled.
func (s *Scheduler) Has(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Advance runs every task due at or before now, oldest deadline first. A
// repeating task fires at most once per call and is rescheduled from now, so
// a long stall does not cause a burst. Tasks may cancel or add tasks.
func (s *Scheduler) Advance(now time.Time) int {
	if s.Suspended() {
		return 0
	}
	var due []*task
	for _, t := range s.tasks {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	ran := 0
	for _, t := range due {
		if _, live := s.tasks[t.id]; !live {
			continue
		}
		if t.interval > 0 {
			t.due = now.Add(t.interval)
		} else {
			delete(s.tasks, t.id)
		}
		t.fn()
		ran++
	}
	return ran
}

// Throttle admits at most one event per interval of wall-clock time.
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a throttle that admits the first event immediately.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Allow reports whether an event at now may proceed, and records it if so.
func (t *Throttle) Allow(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset makes the next event pass.
func (t *Throttle) Reset() {
	t.last = time.Time{}
}

// FrameThrottle gates simulation ticks to a target frame rate. Frames that
// arrive early are skipped; the remainder of an overshoot is carried so the
// average rate tracks the target.
type FrameThrottle struct {
	interval time.Duration
	last     time.Time
}

// NewFrameThrottle creates a throttle for fps frames per second. A
// non-positive fps is treated as uncapped.
func NewFrameThrottle(fps int) *FrameThrottle {
	if fps <= 0 {
		fps = uncappedFPS
	}
	return &FrameThrottle{interval: time.Second / time.Duration(fps)}
}

// Interval returns the target time between ticks.
func (f *FrameThrottle) Interval() time.Duration { return f.interval }

// Ready reports whether enough time has passed since the last accepted frame.
func (f *FrameThrottle) Ready(now time.Time) bool {
	if f.last.IsZero() {
		f.last = now
		return true
	}
	delta := now.Sub(f.last)
	if delta < f.interval {
		return false
	}
	f.last = now.Add(-(delta % f.interval))
	return true
}
