package reconcile

import (
	"context"

	"shaper-sync/core/hierarchy"
	"shaper-sync/core/rate"
)

// Entry is one live circuit observed by a source during collection.
type Entry struct {
	// CircuitName is the stable identity key.
	CircuitName string
	// DeviceName labels the subscriber device; falls back to CircuitName.
	DeviceName string

	MAC  string
	IPv4 string
	IPv6 string

	// Max and Min are the derived shaping pairs, already floored.
	Max rate.Pair
	Min rate.Pair

	// StaticParent names an operator-declared parent node, ensured as a
	// root-level node. When set, Parent is ignored.
	StaticParent string
	// Parent describes the dynamic parent policy for this circuit. The
	// engine fills in the manual-mode flag and the rotation counter.
	Parent hierarchy.ParentRequest
}

// Source collects the currently live circuits of one access kind on one
// router (or from the declarative static list). A failed collection is
// isolated: other sources still run and nothing is pruned early.
type Source interface {
	// Name identifies the source in logs, e.g. "ppp/edge-01".
	Name() string
	// Kind is the comment tag stamped on records this source produces.
	Kind() string
	// Collect returns the live circuits.
	Collect(ctx context.Context) ([]Entry, error)
}
