package arbor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.root == nil {
		t.Fatal("root should not be nil")
	}
	if s.root.Name != "root" {
		t.Errorf("root.Name = %q, want %q", s.root.Name, "root")
	}
	if !s.Root().IsLive() {
		t.Error("root should be live")
	}
	if s.Frame() != 0 || s.Now() != 0 {
		t.Errorf("clock = (%d, %v), want zero", s.Frame(), s.Now())
	}
}

func TestSceneStepAdvancesClock(t *testing.T) {
	s := NewScene()
	stepN(t, s, 4)
	if s.Frame() != 4 {
		t.Errorf("Frame = %d, want 4", s.Frame())
	}
	if s.Now() != time.Second {
		t.Errorf("Now = %v, want 1s", s.Now())
	}
}

func TestSceneUpdateUsesTPS(t *testing.T) {
	s := NewScene()
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Now() != time.Second/60 {
		t.Errorf("Now = %v, want %v", s.Now(), time.Second/60)
	}
}

// fakeClock replaces ebiten's tick rate and the wall clock for one test.
func fakeClock(t *testing.T, tps int, actual float64) *time.Time {
	t.Helper()
	wall := time.Unix(1000, 0)
	oldTPS, oldActual, oldWall := ebitenTPS, ebitenActualTPS, wallClock
	ebitenTPS = func() int { return tps }
	ebitenActualTPS = func() float64 { return actual }
	wallClock = func() time.Time { return wall }
	t.Cleanup(func() {
		ebitenTPS, ebitenActualTPS, wallClock = oldTPS, oldActual, oldWall
	})
	return &wall
}

func TestSceneUpdateSyncWithFPS(t *testing.T) {
	wall := fakeClock(t, -1, 50)
	s := NewScene()

	// No previous Update: the measured rate is used.
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Now() != 20*time.Millisecond {
		t.Errorf("Now = %v, want 20ms", s.Now())
	}

	*wall = wall.Add(30 * time.Millisecond)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.Now() != 50*time.Millisecond {
		t.Errorf("Now = %v, want 50ms", s.Now())
	}

	// Same wall time and no measured rate yet: fall back to the default tick.
	ebitenActualTPS = func() float64 { return 0 }
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if want := 50*time.Millisecond + time.Second/60; s.Now() != want {
		t.Errorf("Now = %v, want %v", s.Now(), want)
	}
}

func TestSceneSyncWithFPSKeepsInterpolatorsRunning(t *testing.T) {
	wall := fakeClock(t, -1, 0)
	s := NewScene()
	target := NewContainer("target")
	s.Root().AddChild(target)
	alpha := NewAlpha(1, time.Second)
	si := NewScaleInterpolator(alpha, target)
	host := NewBehaviorNode("host", si)
	s.Root().AddChild(host)

	for i := 0; i < 40; i++ {
		*wall = wall.Add(time.Second / 30)
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if target.TransformWrites() < 2 {
		t.Errorf("TransformWrites = %d, want the interpolator to keep writing", target.TransformWrites())
	}
	if v, ok := si.LastAlpha(); !ok || v != 1 {
		t.Errorf("LastAlpha = (%v, %v), want (1, true)", v, ok)
	}
}

func TestSceneStepNegativeDT(t *testing.T) {
	s := NewScene()
	stepN(t, s, 2)
	before := s.Now()
	if err := s.Step(-time.Second); err != nil {
		t.Fatal(err)
	}
	if s.Now() != before {
		t.Errorf("Now = %v, want %v", s.Now(), before)
	}
}

func TestSceneUpdateFuncError(t *testing.T) {
	s := NewScene()
	boom := errors.New("boom")
	s.SetUpdateFunc(func() error { return boom })

	if err := s.Step(frameDT); !errors.Is(err, boom) {
		t.Errorf("Step err = %v, want boom", err)
	}
	if s.Frame() != 0 {
		t.Error("failed update should not advance the clock")
	}
}

func TestSceneSetLoggerNilRestoresDefault(t *testing.T) {
	s := NewScene()
	s.SetLogger(nil)
	if s.Logger() != slog.Default() {
		t.Error("nil logger should restore slog.Default()")
	}
}

func TestSceneDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	target := NewContainer("target")
	src := &stubAlpha{}
	s.Root().AddChild(target)
	s.Root().AddChild(NewBehaviorNode("grow", NewScaleInterpolator(src, target)))
	stepN(t, s, 2)
	src.set(1, AlphaFinished)
	stepN(t, s, 1)

	out := buf.String()
	if !strings.Contains(out, "msg=frame") {
		t.Errorf("missing frame stats in log:\n%s", out)
	}
	if !strings.Contains(out, "to=armed-passive") {
		t.Errorf("missing interpolator transition in log:\n%s", out)
	}
}
