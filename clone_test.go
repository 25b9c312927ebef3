package arbor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// otherNode is a SceneNode of a different kind, for clone-source checks.
type otherNode struct{}

func (otherNode) CloneNode(bool) (SceneNode, error)         { return otherNode{}, nil }
func (otherNode) DuplicateAttributes(SceneNode, bool) error { return nil }

func newPulseGroup(alpha AlphaSource) (group, target, behavior *Node) {
	group = NewContainer("group")
	target = NewSprite("box", nil)
	target.X = 12
	si := NewScaleInterpolator(alpha, target)
	si.SetMinimumScale(0.5)
	si.SetMaximumScale(2)
	behavior = NewBehaviorNode("pulse", si)
	group.AddChild(target)
	group.AddChild(behavior)
	return group, target, behavior
}

func TestCloneNodeIndependence(t *testing.T) {
	src := &stubAlpha{}
	target := NewContainer("target")
	si, err := NewScaleInterpolatorWithAxis(src, target, TranslateTransform(4, 4), 0.2, 0.8)
	if err != nil {
		t.Fatal(err)
	}

	sn, err := si.CloneNode(false)
	if err != nil {
		t.Fatalf("CloneNode: %v", err)
	}
	c := sn.(*ScaleInterpolator)

	assertNear(t, "clone min", c.MinimumScale(), 0.2)
	assertNear(t, "clone max", c.MaximumScale(), 0.8)
	assertTransform(t, "clone axis", c.TransformAxis(), TranslateTransform(4, 4))
	assertTransform(t, "clone axis inverse", c.axisInverse, TranslateTransform(-4, -4))
	if c.Alpha() != AlphaSource(src) {
		t.Error("clone should share the alpha source")
	}
	if c.Target() != target {
		t.Error("clone should keep the target reference")
	}
	if c.Host() != nil {
		t.Error("clone should be unattached")
	}

	c.SetMinimumScale(5)
	si.SetMaximumScale(9)
	assertNear(t, "original min", si.MinimumScale(), 0.2)
	assertNear(t, "clone max", c.MaximumScale(), 0.8)
}

func TestDuplicateAttributesInvalidSource(t *testing.T) {
	si := newScaleInterpolatorTemplate()

	if err := si.DuplicateAttributes(otherNode{}, false); !errors.Is(err, ErrInvalidCloneSource) {
		t.Errorf("other kind: err = %v, want ErrInvalidCloneSource", err)
	}
	var nilSource *ScaleInterpolator
	if err := si.DuplicateAttributes(nilSource, false); !errors.Is(err, ErrInvalidCloneSource) {
		t.Errorf("nil source: err = %v, want ErrInvalidCloneSource", err)
	}
}

func TestCloneTreeRemapsTargetInsideSubtree(t *testing.T) {
	group, target, _ := newPulseGroup(&stubAlpha{})

	clone, err := group.CloneTree(false)
	if err != nil {
		t.Fatalf("CloneTree: %v", err)
	}

	cTarget := clone.FindChild("box")
	cBehavior := clone.FindChild("pulse")
	if cTarget == nil || cBehavior == nil {
		t.Fatal("clone is missing children")
	}
	if cTarget == target {
		t.Fatal("target node should be a new node")
	}
	cs := cBehavior.Behavior.(*ScaleInterpolator)
	if cs.Target() != cTarget {
		t.Error("cloned interpolator should target the cloned sprite")
	}
	if cs.Host() != cBehavior {
		t.Error("cloned interpolator should be hosted by the cloned node")
	}
	assertNear(t, "clone min", cs.MinimumScale(), 0.5)
	assertNear(t, "clone target X", cTarget.X, 12)
	if clone.ID == group.ID || clone.Parent != nil {
		t.Error("clone root should have a new ID and no parent")
	}
}

func TestCloneTreeKeepsTargetOutsideSubtree(t *testing.T) {
	outside := NewContainer("outside")
	group := NewContainer("group")
	group.AddChild(NewBehaviorNode("pulse", NewScaleInterpolator(&stubAlpha{}, outside)))

	clone, err := group.CloneTree(false)
	if err != nil {
		t.Fatal(err)
	}
	cs := clone.ChildAt(0).Behavior.(*ScaleInterpolator)
	if cs.Target() != outside {
		t.Error("target outside the cloned subtree should be kept")
	}
}

func TestCloneTreeAlphaPolicy(t *testing.T) {
	t.Run("shared by default", func(t *testing.T) {
		alpha := NewAlpha(-1, time.Second)
		group, _, _ := newPulseGroup(alpha)
		clone, err := group.CloneTree(false)
		if err != nil {
			t.Fatal(err)
		}
		if clone.FindChild("pulse").Behavior.(*ScaleInterpolator).Alpha() != AlphaSource(alpha) {
			t.Error("alpha should be shared")
		}
	})

	t.Run("forced duplicate", func(t *testing.T) {
		alpha := NewAlpha(-1, time.Second)
		group, _, _ := newPulseGroup(alpha)
		clone, err := group.CloneTree(true)
		if err != nil {
			t.Fatal(err)
		}
		got := clone.FindChild("pulse").Behavior.(*ScaleInterpolator).Alpha()
		if got == AlphaSource(alpha) {
			t.Error("forceDuplicate should copy the alpha")
		}
		if got.(*Alpha).Increasing != time.Second {
			t.Error("copied alpha should keep its program")
		}
	})

	t.Run("duplicate on clone", func(t *testing.T) {
		alpha := NewAlpha(-1, time.Second)
		alpha.DuplicateOnClone = true
		group, _, _ := newPulseGroup(alpha)
		clone, err := group.CloneTree(false)
		if err != nil {
			t.Fatal(err)
		}
		if clone.FindChild("pulse").Behavior.(*ScaleInterpolator).Alpha() == AlphaSource(alpha) {
			t.Error("alpha asking for duplication should be copied")
		}
	})
}

func TestCloneTreeRestrictedWhenLiveAndCompiled(t *testing.T) {
	s := NewScene()
	group, _, behavior := newPulseGroup(&stubAlpha{})
	s.Root().AddChild(group)

	if _, err := group.CloneTree(false); err != nil {
		t.Fatalf("live but uncompiled subtree should clone: %v", err)
	}

	group.Compile()
	if _, err := group.CloneTree(false); !errors.Is(err, ErrRestrictedAccess) {
		t.Errorf("CloneTree err = %v, want ErrRestrictedAccess", err)
	}
	si := behavior.Behavior.(*ScaleInterpolator)
	if _, err := si.CloneNode(false); !errors.Is(err, ErrRestrictedAccess) {
		t.Errorf("CloneNode err = %v, want ErrRestrictedAccess", err)
	}

	group.RemoveFromParent()
	if _, err := group.CloneTree(false); err != nil {
		t.Errorf("compiled template off the scene should clone: %v", err)
	}
}

func TestCloneTreeRestrictedByCompiledDescendant(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	inner := NewContainer("inner")
	leaf := NewContainer("leaf")
	group.AddChild(inner)
	inner.AddChild(leaf)
	s.Root().AddChild(group)

	leaf.Compile()
	_, err := group.CloneTree(false)
	if !errors.Is(err, ErrRestrictedAccess) {
		t.Fatalf("CloneTree err = %v, want ErrRestrictedAccess", err)
	}
	if !strings.Contains(err.Error(), `"leaf"`) {
		t.Errorf("error %q should name the compiled node", err)
	}

	group.RemoveFromParent()
	if _, err := group.CloneTree(false); err != nil {
		t.Errorf("detached subtree should clone: %v", err)
	}
}

func TestCloneTreeNotCloneable(t *testing.T) {
	group := NewContainer("group")
	group.AddChild(NewBehaviorNode("rec", &recordingBehavior{}))

	if _, err := group.CloneTree(false); !errors.Is(err, ErrNotCloneable) {
		t.Errorf("err = %v, want ErrNotCloneable", err)
	}
}

func TestCloneTreeOfLiveSubtreeRunsIndependently(t *testing.T) {
	s := NewScene()
	src := &stubAlpha{}
	group, target, _ := newPulseGroup(src)
	s.Root().AddChild(group)
	stepN(t, s, 3)

	clone, err := group.CloneTree(false)
	if err != nil {
		t.Fatal(err)
	}
	clone.X = 200
	s.Root().AddChild(clone)
	cTarget := clone.FindChild("box")

	before := target.TransformWrites()
	src.set(1, AlphaRunning)
	stepN(t, s, 2)

	if target.TransformWrites() != before+1 {
		t.Errorf("original writes = %d, want %d", target.TransformWrites(), before+1)
	}
	if cTarget.TransformWrites() != 1 {
		t.Errorf("clone writes = %d, want 1", cTarget.TransformWrites())
	}
	assertNear(t, "clone scale", cTarget.Transform()[0], 2)
	assertNear(t, "clone world tx", cTarget.WorldTransform()[4], 200)
}
