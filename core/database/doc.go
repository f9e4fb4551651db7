// Package database provides the optional MySQL connection backing the
// cycle audit trail. The daemon never requires it: when the connection is
// disabled or fails, reconciliation proceeds without history.
package database
