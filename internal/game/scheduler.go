package game

import (
	"sort"
	"time"
)

// scheduledEvent is a delayed callback on the simulated clock. gen is the
// session generation at scheduling time; a callback whose gen no longer
// matches is stale and must not run.
type scheduledEvent struct {
	at   time.Duration
	seq  uint64
	gen  uint64
	name string
	fn   func()
}

// Scheduler is a timer queue driven by a manual clock. Time only moves when
// Advance is called, so runs are reproducible.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	events []scheduledEvent
}

// Now returns the simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Advance moves the clock forward.
func (s *Scheduler) Advance(d time.Duration) { s.now += d }

// After queues fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, gen uint64, name string, fn func()) {
	s.seq++
	ev := scheduledEvent{at: s.now + d, seq: s.seq, gen: gen, name: name, fn: fn}
	i := sort.Search(len(s.events), func(i int) bool {
		e := s.events[i]
		return e.at > ev.at || (e.at == ev.at && e.seq > ev.seq)
	})
	s.events = append(s.events, scheduledEvent{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = ev
}

// PopDue removes and returns the earliest event whose time has come.
func (s *Scheduler) PopDue() (scheduledEvent, bool) {
	if len(s.events) == 0 || s.events[0].at > s.now {
		return scheduledEvent{}, false
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, true
}

// Pending returns the number of queued events, stale ones included.
func (s *Scheduler) Pending() int { return len(s.events) }

// PendingNamed counts queued events with the given name.
func (s *Scheduler) PendingNamed(name string) int {
	n := 0
	for _, e := range s.events {
		if e.name == name {
			n++
		}
	}
	return n
}
