package arbor

import "github.com/hajimehoshi/ebiten/v2"

// nodeIDCounter is a plain counter; arbor is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// scene is only set on a scene's root; a node is live when its topmost
	// ancestor carries one.
	scene *Scene

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Full local transform written by SetTransform (interpolator targets).
	transform       Transform
	hasTransform    bool
	transformWrites uint64

	// Computed during Scene.Update
	worldTransform Transform
	worldAlpha     float64
	transformDirty bool

	// Visibility
	Alpha      float64
	Visible    bool
	Renderable bool

	// Metadata
	UserData any

	// Sprite fields (NodeTypeSprite)
	Color Color
	Image *ebiten.Image // nil draws WhitePixel scaled by the node transform

	// Behavior fields (NodeTypeBehavior)
	Behavior Behavior

	// Internal
	compiled bool
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.Renderable = true
	n.transformDirty = true
	n.worldTransform = IdentityTransform
	n.transform = IdentityTransform
}

// NewContainer creates a container node with no visual representation.
// Interpolators target containers (or sprites) and rewrite their transform.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node that draws img, or a solid WhitePixel quad
// tinted by Color when img is nil.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img}
	nodeDefaults(n)
	return n
}

// NewBehaviorNode hosts b in the scene graph. The behavior is scheduled while
// the node is live and stops being scheduled when it is detached.
func NewBehaviorNode(name string, b Behavior) *Node {
	n := &Node{Name: name, Type: NodeTypeBehavior, Behavior: b}
	nodeDefaults(n)
	n.Renderable = false
	if h, ok := b.(hostedBehavior); ok {
		h.setHost(n)
	}
	return n
}

// --- Live / compiled state ---

// IsLive reports whether the node is attached, directly or through its
// ancestors, to a scene's root.
func (n *Node) IsLive() bool {
	p := n
	for p.Parent != nil {
		p = p.Parent
	}
	return p.scene != nil
}

// Compile marks the node and its descendants as compiled. A subtree that is
// both live and compiled can no longer be cloned.
func (n *Node) Compile() {
	n.compiled = true
	for _, child := range n.children {
		child.Compile()
	}
}

// IsCompiled reports whether Compile has been applied to this node.
func (n *Node) IsCompiled() bool {
	return n.compiled
}

// restricted reports whether the node is both live and compiled.
func (n *Node) restricted() bool {
	return n.compiled && n.IsLive()
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("arbor: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("arbor: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// FindChild returns the first descendant (depth-first) with the given name,
// or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Image = nil
	n.Behavior = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
