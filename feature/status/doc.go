// Package status serves a small local HTTP endpoint with the outcome of the
// most recent reconciliation cycle, for probes and quick operator checks.
package status
