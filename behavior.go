package arbor

import (
	"log/slog"
	"time"
)

// FrameContext is passed to a behavior each time it is woken.
type FrameContext struct {
	Frame  uint64        // frame number, starting at 1 for the first Update
	Now    time.Duration // scene time at this frame
	Delta  time.Duration // time since the previous frame
	Node   *Node         // node hosting the behavior
	Logger *slog.Logger
}

// Behavior is scheduled by the scene while its host node is live.
//
// ArmInitial is called when the host becomes live (or live again after being
// detached) and returns the first wake-up request. OnWakeup is called on the
// frame that request is satisfied and returns the next one; every behavior
// always holds exactly one pending request. OnWakeup runs before the frame's
// world transforms are refreshed and must not block.
type Behavior interface {
	ArmInitial() Wakeup
	OnWakeup(fc FrameContext) Wakeup
}

// SceneNode is the clone protocol for node payloads such as behaviors.
//
// CloneNode returns a fresh, unattached instance carrying the receiver's
// configuration. DuplicateAttributes copies configuration from original into
// the receiver. forceDuplicate makes nested shareable data (for example an
// alpha source) deep-copied regardless of its own preference.
type SceneNode interface {
	CloneNode(forceDuplicate bool) (SceneNode, error)
	DuplicateAttributes(original SceneNode, forceDuplicate bool) error
}

// TransformProducer computes an output transform from an alpha value.
type TransformProducer interface {
	ComputeTransform(alpha float64) Transform
}

// NodeReferenceUpdater is implemented by cloned payloads that refer to other
// nodes. After a CloneTree, each is given the table mapping original nodes to
// their clones.
type NodeReferenceUpdater interface {
	UpdateNodeReferences(table *NodeReferenceTable)
}

// hostedBehavior is satisfied by behaviors embedding TransformInterpolator so
// they know the node they live in.
type hostedBehavior interface {
	setHost(n *Node)
}
