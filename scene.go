package arbor

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree, the frame clock and
// the behavior scheduler.
type Scene struct {
	root   *Node
	logger *slog.Logger
	debug  bool

	// ClearColor fills the screen before each Draw when its alpha is non-zero.
	ClearColor Color

	// Frame clock
	frame      uint64
	now        time.Duration
	lastUpdate time.Time

	sched      scheduler
	updateFunc func() error
}

// NewScene creates a new scene with a pre-created root container. The root
// and everything attached under it are live.
func NewScene() *Scene {
	root := NewContainer("root")
	s := &Scene{
		root:   root,
		logger: slog.Default(),
		sched:  newScheduler(),
	}
	root.scene = s
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetUpdateFunc sets a callback run at the start of every Update, before
// behaviors are scheduled. An error it returns is returned by Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Clock sources read by Update.
var (
	ebitenTPS       = ebiten.TPS
	ebitenActualTPS = ebiten.ActualTPS
	wallClock       = time.Now
)

// Update advances the scene by one tick of ebiten's TPS. Under
// ebiten.SyncWithFPS the tick is the wall time since the previous Update.
func (s *Scene) Update() error {
	return s.Step(s.tickLength())
}

func (s *Scene) tickLength() time.Duration {
	now := wallClock()
	last := s.lastUpdate
	s.lastUpdate = now

	if tps := ebitenTPS(); tps > 0 {
		return time.Second / time.Duration(tps)
	}
	if !last.IsZero() {
		if dt := now.Sub(last); dt > 0 {
			return dt
		}
	}
	if actual := ebitenActualTPS(); actual > 0 {
		return time.Duration(float64(time.Second) / actual)
	}
	return time.Second / ebiten.DefaultTPS
}

// Step advances the scene by one frame of length dt: the update callback
// runs, the clock advances, every behavior whose wake-up is satisfied runs,
// and world transforms are refreshed so the frame's Draw sees every write.
// A negative dt is treated as zero; the clock never runs backwards.
func (s *Scene) Step(dt time.Duration) error {
	if dt < 0 {
		dt = 0
	}
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	s.frame++
	s.now += dt

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.sched.run(s.root, s.frame, s.now, dt, s.logger)

	if s.debug {
		s.sched.stats.elapsed = time.Since(t0)
		s.debugLog(s.sched.stats)
	}

	updateWorldTransform(s.root, IdentityTransform, 1.0, false)
	return nil
}

// Frame returns the number of frames stepped so far.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// Now returns the scene clock. Alpha sources are sampled against it.
func (s *Scene) Now() time.Duration {
	return s.now
}

// Idle reports whether no behavior holds an active (non-passive) wake-up
// request after the last frame.
func (s *Scene) Idle() bool {
	return s.sched.stats.armed == 0
}

// PendingWakeup returns the request held by a live behavior node.
func (s *Scene) PendingWakeup(n *Node) (Wakeup, bool) {
	return s.sched.pending(n)
}

// SetLogger sets the logger passed to behaviors and used for debug output.
// nil restores slog.Default().
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l
	if s.debug {
		debugLogger = l
	}
}

// Logger returns the scene logger.
func (s *Scene) Logger() *slog.Logger {
	return s.logger
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame scheduler stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = s.logger
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
