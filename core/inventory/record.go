package inventory

import "time"

// Comment tags identifying the source a record came from. The tag decides
// staleness handling: static records are never pruned.
const (
	CommentPPP     = "PPP"
	CommentHotspot = "Hotspot"
	CommentDHCP    = "DHCP"
	CommentStatic  = "Static"
)

// Record is one rate-limited subscriber unit in the canonical table.
// CircuitName is the stable identity key; CircuitID and DeviceID are opaque
// tokens assigned exactly once at creation and never regenerated.
type Record struct {
	CircuitID   string
	CircuitName string
	DeviceID    string
	DeviceName  string
	ParentNode  string
	MAC         string
	IPv4        string
	IPv6        string

	DownloadMinMbps float64
	UploadMinMbps   float64
	DownloadMaxMbps float64
	UploadMaxMbps   float64

	Comment string

	// LastSeen is the last cycle this record was observed live.
	// Zero and irrelevant for static records.
	LastSeen time.Time
}

// IsStatic reports whether the record comes from the static device list.
func (r *Record) IsStatic() bool { return r.Comment == CommentStatic }

// Attrs carries the updatable fields of a record. Nil fields are left
// untouched on update; identity fields (circuit name and the two generated
// IDs) are immutable after creation and deliberately absent here.
type Attrs struct {
	DeviceName *string
	ParentNode *string
	MAC        *string
	IPv4       *string
	IPv6       *string
	Comment    *string

	DownloadMinMbps *float64
	UploadMinMbps   *float64
	DownloadMaxMbps *float64
	UploadMaxMbps   *float64
}

// Ptr is a convenience for building Attrs literals.
func Ptr[T any](v T) *T { return &v }

// apply overwrites record fields from non-nil attrs and reports whether
// anything actually changed.
func (r *Record) apply(a Attrs) bool {
	changed := false

	setStr := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}

	setStr(&r.DeviceName, a.DeviceName)
	setStr(&r.ParentNode, a.ParentNode)
	setStr(&r.MAC, a.MAC)
	setStr(&r.IPv4, a.IPv4)
	setStr(&r.IPv6, a.IPv6)
	setStr(&r.Comment, a.Comment)
	setFloat(&r.DownloadMinMbps, a.DownloadMinMbps)
	setFloat(&r.UploadMinMbps, a.UploadMinMbps)
	setFloat(&r.DownloadMaxMbps, a.DownloadMaxMbps)
	setFloat(&r.UploadMaxMbps, a.UploadMaxMbps)

	return changed
}
