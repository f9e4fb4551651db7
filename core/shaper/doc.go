// Package shaper wraps the external shaping engine's reload command.
//
// The engine itself (queue disciplines, packet shaping) is a separate
// system; this package only tells it to re-read the persisted shaped-device
// table after a commit.
package shaper
