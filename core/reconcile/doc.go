// Package reconcile contains the reconciliation engine that keeps the
// shaped-device table in step with what the access routers report.
//
// Each cycle runs the same state machine: collect entries from every source
// (static list first), merge them into the canonical table under the address
// conflict rules, prune records no source reported within the grace window,
// commit the table and hierarchy atomically, then ask the shaper to reload.
// A mode guard wipes the table (never the hierarchy) when the operator flips
// between automatic and manual parent assignment, because the two modes
// produce incompatible parent layouts.
package reconcile
