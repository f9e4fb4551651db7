// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface and builds
// the artifact Mirror on top of it: after a committed reconciliation cycle
// the shaped-device CSV and hierarchy document can be copied to a bucket as
// an off-host backup. Mirroring is best-effort and never blocks a commit.
package storage
