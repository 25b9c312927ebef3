package arbor

import (
	"log/slog"
	"time"
)

// behaviorEntry is the scheduler's record of one live behavior node.
type behaviorEntry struct {
	node       *Node
	wake       Wakeup
	armedFrame uint64
	armedAt    time.Duration
	seenFrame  uint64
}

// schedulerStats is reset every frame and reported in debug mode.
type schedulerStats struct {
	armed   int
	woken   int
	passive int
	elapsed time.Duration
}

// scheduler holds exactly one pending Wakeup per live behavior and wakes the
// behaviors whose request is satisfied, once per frame, in tree order.
type scheduler struct {
	entries map[*Node]*behaviorEntry
	live    []*Node // reused traversal buffer
	stats   schedulerStats
}

func newScheduler() scheduler {
	return scheduler{entries: make(map[*Node]*behaviorEntry)}
}

// collect appends every behavior node under n to s.live.
func (s *scheduler) collect(n *Node) {
	if n.Type == NodeTypeBehavior && n.Behavior != nil {
		s.live = append(s.live, n)
	}
	for _, child := range n.children {
		s.collect(child)
	}
}

// run performs one scheduling pass. Behaviors that were not live on the
// previous frame are armed (and first woken on a later frame); behaviors no
// longer in the tree are forgotten.
func (s *scheduler) run(root *Node, frame uint64, now, delta time.Duration, logger *slog.Logger) {
	s.stats = schedulerStats{}
	s.live = s.live[:0]
	s.collect(root)

	for _, n := range s.live {
		e := s.entries[n]
		if e == nil || e.seenFrame+1 != frame {
			if e == nil {
				e = &behaviorEntry{node: n}
				s.entries[n] = e
			}
			e.wake = n.Behavior.ArmInitial()
			e.armedFrame = frame
			e.armedAt = now
			e.seenFrame = frame
			s.count(e)
			continue
		}
		e.seenFrame = frame

		if e.wake.satisfied(e.armedFrame, e.armedAt, frame, now) {
			s.stats.woken++
			e.wake = n.Behavior.OnWakeup(FrameContext{
				Frame:  frame,
				Now:    now,
				Delta:  delta,
				Node:   n,
				Logger: logger,
			})
			e.armedFrame = frame
			e.armedAt = now
		}
		s.count(e)
	}

	for n, e := range s.entries {
		if e.seenFrame != frame {
			delete(s.entries, n)
		}
	}
}

func (s *scheduler) count(e *behaviorEntry) {
	if e.wake.Passive {
		s.stats.passive++
		return
	}
	s.stats.armed++
}

// pending returns the request currently held for a behavior node.
func (s *scheduler) pending(n *Node) (Wakeup, bool) {
	e, ok := s.entries[n]
	if !ok {
		return Wakeup{}, false
	}
	return e.wake, true
}
