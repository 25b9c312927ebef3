package arbor

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	TPS     int  // ticks per second; 0 keeps ebiten's default of 60
	ShowFPS bool // overlay FPS/TPS and scheduler activity
}

// Run opens a window and drives scene with ebiten's game loop until the
// window is closed or the scene's update callback returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("run: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}

type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		st := g.scene.sched.stats
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nbehaviors: %d active, %d passive",
			ebiten.ActualFPS(), ebiten.ActualTPS(), st.armed, st.passive))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
