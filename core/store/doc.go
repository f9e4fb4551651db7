// Package store persists the reconciliation state between cycles: the
// canonical shaped-device CSV, the hierarchy JSON document, and the
// parent-assignment mode token. All writes are atomic replace operations so
// the consuming shaping engine never observes a partial file.
package store
