package arbor

import "fmt"

// NodeReferenceTable maps the nodes of a cloned subtree to their clones.
type NodeReferenceTable struct {
	clones map[*Node]*Node
}

func newNodeReferenceTable() *NodeReferenceTable {
	return &NodeReferenceTable{clones: make(map[*Node]*Node)}
}

// Lookup returns the clone of original made by the same CloneTree call, or
// original itself when it lies outside the cloned subtree.
func (t *NodeReferenceTable) Lookup(original *Node) *Node {
	if c, ok := t.clones[original]; ok {
		return c
	}
	return original
}

// Len returns the number of cloned nodes.
func (t *NodeReferenceTable) Len() int {
	return len(t.clones)
}

// CloneTree returns a detached, uncompiled deep copy of n and its
// descendants. Hosted behaviors are copied through their SceneNode
// implementation; afterwards every cloned payload implementing
// NodeReferenceUpdater has its node references remapped, so a behavior
// targeting a node inside the subtree targets that node's clone.
//
// A live subtree containing any compiled node returns ErrRestrictedAccess
// and nothing is cloned.
func (n *Node) CloneTree(forceDuplicate bool) (*Node, error) {
	if globalDebug {
		debugCheckDisposed(n, "CloneTree")
	}
	if r := restrictedDescendant(n); r != nil {
		return nil, fmt.Errorf("clone %q: node %q: %w", n.Name, r.Name, ErrRestrictedAccess)
	}

	table := newNodeReferenceTable()
	var updaters []NodeReferenceUpdater
	root, err := cloneSubtree(n, forceDuplicate, table, &updaters)
	if err != nil {
		return nil, err
	}
	for _, u := range updaters {
		u.UpdateNodeReferences(table)
	}
	return root, nil
}

// restrictedDescendant returns the first live and compiled node in n's
// subtree, or nil.
func restrictedDescendant(n *Node) *Node {
	if !n.IsLive() {
		return nil
	}
	var walk func(*Node) *Node
	walk = func(c *Node) *Node {
		if c.compiled {
			return c
		}
		for _, child := range c.children {
			if r := walk(child); r != nil {
				return r
			}
		}
		return nil
	}
	return walk(n)
}

func cloneSubtree(n *Node, forceDuplicate bool, table *NodeReferenceTable, updaters *[]NodeReferenceUpdater) (*Node, error) {
	c, err := cloneNode(n, forceDuplicate)
	if err != nil {
		return nil, err
	}
	table.clones[n] = c
	if u, ok := c.Behavior.(NodeReferenceUpdater); ok {
		*updaters = append(*updaters, u)
	}
	for _, child := range n.children {
		cc, err := cloneSubtree(child, forceDuplicate, table, updaters)
		if err != nil {
			return nil, err
		}
		c.AddChild(cc)
	}
	return c, nil
}

// cloneNode copies a single node's own fields. Hierarchy, live and compiled
// state and the transform write counter are not carried over.
func cloneNode(n *Node, forceDuplicate bool) (*Node, error) {
	c := &Node{
		Name:         n.Name,
		Type:         n.Type,
		X:            n.X,
		Y:            n.Y,
		ScaleX:       n.ScaleX,
		ScaleY:       n.ScaleY,
		Rotation:     n.Rotation,
		SkewX:        n.SkewX,
		SkewY:        n.SkewY,
		PivotX:       n.PivotX,
		PivotY:       n.PivotY,
		transform:    n.transform,
		hasTransform: n.hasTransform,
		Alpha:        n.Alpha,
		Visible:      n.Visible,
		Renderable:   n.Renderable,
		UserData:     n.UserData,
		Color:        n.Color,
		Image:        n.Image,
	}
	c.ID = nextNodeID()
	c.worldTransform = IdentityTransform
	c.transformDirty = true

	if n.Behavior == nil {
		return c, nil
	}
	sn, ok := n.Behavior.(SceneNode)
	if !ok {
		return nil, fmt.Errorf("clone %q (%T): %w", n.Name, n.Behavior, ErrNotCloneable)
	}
	dup, err := sn.CloneNode(forceDuplicate)
	if err != nil {
		return nil, fmt.Errorf("clone %q: %w", n.Name, err)
	}
	b, ok := dup.(Behavior)
	if !ok {
		return nil, fmt.Errorf("clone %q: %T is not a Behavior: %w", n.Name, dup, ErrInvalidCloneSource)
	}
	c.Behavior = b
	if h, ok := b.(hostedBehavior); ok {
		h.setHost(c)
	}
	return c, nil
}
