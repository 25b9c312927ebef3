package arbor

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Draw walks the tree depth-first and draws every visible sprite with the
// world transform computed by the last Update. Interpolator writes made in
// that Update are therefore visible in this Draw.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.draw(screen, s.root)
}

func (s *Scene) draw(screen *ebiten.Image, n *Node) {
	if !n.Visible {
		return
	}
	if n.Type == NodeTypeSprite && n.Renderable {
		drawSprite(screen, n)
	}
	for _, child := range n.children {
		s.draw(screen, child)
	}
}

func drawSprite(screen *ebiten.Image, n *Node) {
	img := n.Image
	if img == nil {
		img = WhitePixel
	}
	m := n.worldTransform
	var op ebiten.DrawImageOptions
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	a := float32(n.Color.A * n.worldAlpha)
	op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)
	screen.DrawImage(img, &op)
}
