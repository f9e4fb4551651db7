package utils

import "strings"

// CompactMAC strips the colon separators from a MAC address so it can serve
// as a path-safe identity component.
func CompactMAC(mac string) string {
	return strings.ReplaceAll(mac, ":", "")
}
