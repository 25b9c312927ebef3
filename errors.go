package arbor

import "errors"

var (
	// ErrDegenerateAxis is returned when an axis transform has no inverse.
	ErrDegenerateAxis = errors.New("arbor: axis transform is not invertible")

	// ErrInvalidCloneSource is returned by DuplicateAttributes when the original
	// is not the same concrete behavior kind as the receiver.
	ErrInvalidCloneSource = errors.New("arbor: clone source is a different behavior kind")

	// ErrRestrictedAccess is returned when a clone is attempted on a subtree that
	// is both live and compiled.
	ErrRestrictedAccess = errors.New("arbor: subtree is live and compiled")

	// ErrNotCloneable is returned by CloneTree when a behavior node hosts a
	// behavior that does not implement SceneNode.
	ErrNotCloneable = errors.New("arbor: behavior does not support cloning")
)
