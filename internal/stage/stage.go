// Package stage builds an arbor scene from a config.Config.
//
// Each sprite becomes three nodes:
//
//	slot (positioned at X, Y)
//	└── target container (named after the sprite; interpolators write here)
//	    └── quad (WhitePixel stretched to Width x Height, centered)
//
// so a scale interpolator with an identity axis scales a sprite about its
// center. Interpolator behavior nodes are attached to the slot of their
// target, which keeps target and behavior in one subtree for CloneTree.
package stage

import (
	"fmt"
	"log/slog"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/config"
)

// Stage is a built scene plus handles into it.
type Stage struct {
	Scene *arbor.Scene

	// Targets maps target node name to node. Copies are named "<sprite>#<n>".
	Targets map[string]*arbor.Node

	// Interpolators lists every scale interpolator in scene order,
	// including copies.
	Interpolators []*arbor.ScaleInterpolator

	// Alphas are the built alpha programs by config name.
	Alphas map[string]*arbor.Alpha
}

// Build constructs a new scene from cfg. cfg is expected to have been
// validated.
func Build(cfg *config.Config, logger *slog.Logger) (*Stage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	scene := arbor.NewScene()
	scene.SetLogger(logger)

	st := &Stage{
		Scene:   scene,
		Targets: make(map[string]*arbor.Node),
		Alphas:  make(map[string]*arbor.Alpha),
	}

	for name, ac := range cfg.Alphas {
		a, err := ac.Build()
		if err != nil {
			return nil, fmt.Errorf("alpha %q: %w", name, err)
		}
		st.Alphas[name] = a
	}

	slots := make(map[string]*arbor.Node, len(cfg.Sprites))
	for _, sc := range cfg.Sprites {
		slot := newSlot(sc)
		slots[sc.Name] = slot
		st.Targets[sc.Name] = slot.ChildAt(0)
	}

	for i, ic := range cfg.Interpolators {
		slot, ok := slots[ic.Target]
		if !ok {
			return nil, fmt.Errorf("interpolator %d: unknown target %q", i, ic.Target)
		}
		alpha, ok := st.Alphas[ic.Alpha]
		if !ok {
			return nil, fmt.Errorf("interpolator %d: unknown alpha %q", i, ic.Alpha)
		}
		si, err := arbor.NewScaleInterpolatorWithAxis(alpha, st.Targets[ic.Target],
			ic.Axis.Transform(), ic.MinScale, ic.MaxScale)
		if err != nil {
			return nil, fmt.Errorf("interpolator %s: %w", ic.Name, err)
		}
		slot.AddChild(arbor.NewBehaviorNode(ic.Name, si))
	}

	copies := make(map[string]int, len(cfg.Sprites))
	spacing := make(map[string]float64, len(cfg.Sprites))
	for _, ic := range cfg.Interpolators {
		if ic.Copies > copies[ic.Target] {
			copies[ic.Target] = ic.Copies
			spacing[ic.Target] = ic.Spacing
		}
	}

	for _, sc := range cfg.Sprites {
		slot := slots[sc.Name]
		scene.Root().AddChild(slot)
		for n := 1; n <= copies[sc.Name]; n++ {
			clone, err := slot.CloneTree(false)
			if err != nil {
				return nil, fmt.Errorf("copy %d of %q: %w", n, sc.Name, err)
			}
			clone.X += spacing[sc.Name] * float64(n)
			clone.Name = fmt.Sprintf("%s#%d-slot", sc.Name, n)
			target := clone.ChildAt(0)
			target.Name = fmt.Sprintf("%s#%d", sc.Name, n)
			st.Targets[target.Name] = target
			for _, c := range clone.Children() {
				if c.Type == arbor.NodeTypeBehavior {
					c.Name = fmt.Sprintf("%s#%d", c.Name, n)
				}
			}
			scene.Root().AddChild(clone)
		}
	}

	st.Interpolators = collectInterpolators(scene.Root(), nil)
	logger.Debug("stage built",
		"sprites", len(cfg.Sprites),
		"targets", len(st.Targets),
		"interpolators", len(st.Interpolators))
	return st, nil
}

func newSlot(sc config.SpriteConfig) *arbor.Node {
	slot := arbor.NewContainer(sc.Name + "-slot")
	slot.X, slot.Y = sc.X, sc.Y

	target := arbor.NewContainer(sc.Name)

	quad := arbor.NewSprite(sc.Name+"-quad", nil)
	quad.ScaleX, quad.ScaleY = sc.Width, sc.Height
	quad.X, quad.Y = -sc.Width/2, -sc.Height/2
	quad.Color = arbor.Color{R: sc.Color[0], G: sc.Color[1], B: sc.Color[2], A: sc.Color[3]}

	target.AddChild(quad)
	slot.AddChild(target)
	return slot
}

func collectInterpolators(n *arbor.Node, out []*arbor.ScaleInterpolator) []*arbor.ScaleInterpolator {
	if si, ok := n.Behavior.(*arbor.ScaleInterpolator); ok {
		out = append(out, si)
	}
	for _, c := range n.Children() {
		out = collectInterpolators(c, out)
	}
	return out
}

// Name returns the display name of an interpolator: its host node name.
func Name(si *arbor.ScaleInterpolator) string {
	if h := si.Host(); h != nil {
		return h.Name
	}
	return ""
}
