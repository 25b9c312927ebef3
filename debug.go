package arbor

import (
	"fmt"
	"log/slog"
)

// debugLogger receives node-level warnings in debug mode.
var debugLogger = slog.Default()

// debugLog reports per-frame scheduler stats.
func (s *Scene) debugLog(stats schedulerStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		slog.Uint64("frame", s.frame),
		slog.Duration("now", s.now),
		slog.Int("armed", stats.armed),
		slog.Int("passive", stats.passive),
		slog.Int("woken", stats.woken),
		slog.Duration("schedule", stats.elapsed))
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold",
			slog.String("node", n.Name),
			slog.Int("depth", depth),
			slog.Int("threshold", debugMaxTreeDepth))
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold",
			slog.String("node", n.Name),
			slog.Int("children", len(n.children)),
			slog.Int("threshold", debugMaxChildCount))
	}
}
