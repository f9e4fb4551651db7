package routeros

import (
	"context"

	"shaper-sync/core/utils"
)

// Record is one row returned by a router resource, with values normalized
// lazily via the accessors.
type Record map[string]any

// Str returns the value under key as a string, or "" when absent.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	return utils.ToString(v)
}

// Bool returns the value under key as a bool.
func (r Record) Bool(key string) bool {
	v, ok := r[key]
	if !ok {
		return false
	}
	return utils.ToBool(v)
}

// Has reports whether the key is present with a non-empty value.
func (r Record) Has(key string) bool {
	return r.Str(key) != ""
}

// Client fetches rows from a router resource path. Implementations are
// fallible per call; the reconciliation engine isolates failures per source.
type Client interface {
	// FetchResource returns the rows of a resource path (e.g. "/ppp/secret"),
	// optionally server-side filtered by exact field matches.
	FetchResource(ctx context.Context, path string, filters map[string]string) ([]Record, error)
}
