package storage

import (
	"context"

	"shaper-sync/core/reconcile"
)

// MirrorHook uploads the artifacts after every committed cycle. It satisfies
// reconcile.Hook.
type MirrorHook struct {
	mirror *Mirror
}

// NewMirrorHook wraps a mirror as a cycle hook.
func NewMirrorHook(mirror *Mirror) *MirrorHook {
	return &MirrorHook{mirror: mirror}
}

// AfterCycle implements reconcile.Hook. Cycles without a commit leave the
// mirrored copy as is.
func (h *MirrorHook) AfterCycle(ctx context.Context, sum reconcile.Summary) error {
	if !sum.Committed {
		return nil
	}
	return h.mirror.Upload(ctx)
}
