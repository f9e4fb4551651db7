// Package hierarchy maintains the parent-node tree that shaped circuits
// attach to.
//
// The tree mirrors the network.json document consumed by the shaping engine:
// a keyed tree of nodes, each with download/upload caps, a type, and a
// children map. The Manager creates nodes lazily (router roots, per-access
// children, per-plan nodes, manual and static parents) and never rewrites
// the caps of nodes an operator may have tuned.
package hierarchy
