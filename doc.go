// Package arbor is a frame-synchronized behavior runtime for an [Ebitengine]
// scene graph.
//
// A [Scene] owns a tree of [Node] values and a scheduler. Each frame,
// [Scene.Update] (or [Scene.Step] when driving the clock yourself) advances
// the scene clock, wakes every [Behavior] whose pending [Wakeup] is satisfied,
// and then refreshes world transforms, so anything a behavior writes is seen
// by the same frame's [Scene.Draw].
//
// # Scale interpolation
//
// [ScaleInterpolator] rewrites a target node's local transform from an
// [AlphaSource]:
//
//	scene := arbor.NewScene()
//	box := arbor.NewSprite("box", nil)
//	scene.Root().AddChild(box)
//
//	alpha := arbor.NewAlpha(-1, time.Second)
//	grow := arbor.NewScaleInterpolator(alpha, box)
//	grow.SetMinimumScale(16)
//	grow.SetMaximumScale(64)
//	scene.Root().AddChild(arbor.NewBehaviorNode("grow", grow))
//
// While the alpha source runs the interpolator wakes every frame and writes
// only when the value changed. When the source finishes, the final value is
// written exactly once more and the interpolator drops to a passive
// once-per-frame poll, so a restarted source is picked up again.
//
// Alpha sources: [Alpha] is a looping program of ramps and holds with
// optional easing from [gween/ease]; [TweenAlpha] wraps a one-shot [gween]
// tween.
//
// # Cloning
//
// [Node.CloneTree] duplicates a subtree. Behaviors are copied through
// [SceneNode]; an interpolator whose target was cloned along with it targets
// the clone. Subtrees that are both live and [Node.Compile]d cannot be cloned.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [gween/ease]: https://pkg.go.dev/github.com/tanema/gween/ease
package arbor
