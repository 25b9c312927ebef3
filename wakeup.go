package arbor

import (
	"fmt"
	"time"
)

// WakeupKind identifies the condition a Wakeup waits for.
type WakeupKind uint8

const (
	WakeupAlphaUpdate   WakeupKind = iota // next frame in which the alpha clock advanced
	WakeupElapsedFrames                   // after Frames whole frames have elapsed
	WakeupElapsedTime                     // after Duration of scene time has elapsed
)

// Wakeup is the single pending request a behavior holds with the scheduler.
// Returning a new Wakeup from OnWakeup replaces (cancels) the previous one.
type Wakeup struct {
	Kind     WakeupKind
	Frames   int
	Duration time.Duration

	// Passive requests do not count as activity: a scene whose armed
	// behaviors are all passive reports Idle.
	Passive bool
}

// WakeupOnAlphaUpdate wakes the behavior on every frame the alpha clock moves.
func WakeupOnAlphaUpdate() Wakeup {
	return Wakeup{Kind: WakeupAlphaUpdate}
}

// WakeupOnElapsedFrames wakes the behavior once n whole frames have passed
// since it was armed. n = 0 means the next frame, so a behavior re-arming
// with it is woken at most once per frame.
func WakeupOnElapsedFrames(n int, passive bool) Wakeup {
	if n < 0 {
		n = 0
	}
	return Wakeup{Kind: WakeupElapsedFrames, Frames: n, Passive: passive}
}

// WakeupOnElapsedTime wakes the behavior once d of scene time has passed.
func WakeupOnElapsedTime(d time.Duration) Wakeup {
	return Wakeup{Kind: WakeupElapsedTime, Duration: d}
}

// satisfied reports whether a request armed at (armedFrame, armedAt) fires
// on frame at time now.
func (w Wakeup) satisfied(armedFrame uint64, armedAt time.Duration, frame uint64, now time.Duration) bool {
	switch w.Kind {
	case WakeupAlphaUpdate:
		return frame > armedFrame && now > armedAt
	case WakeupElapsedFrames:
		return frame > armedFrame+uint64(w.Frames)
	case WakeupElapsedTime:
		return frame > armedFrame && now-armedAt >= w.Duration
	default:
		return false
	}
}

func (w Wakeup) String() string {
	switch w.Kind {
	case WakeupAlphaUpdate:
		return "alpha-update"
	case WakeupElapsedFrames:
		if w.Passive {
			return fmt.Sprintf("elapsed-frames(%d, passive)", w.Frames)
		}
		return fmt.Sprintf("elapsed-frames(%d)", w.Frames)
	case WakeupElapsedTime:
		return fmt.Sprintf("elapsed-time(%v)", w.Duration)
	default:
		return "unknown"
	}
}
