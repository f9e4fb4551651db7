// Package hotspot collects live hotspot sessions.
//
// Hotspot users are transient, so the circuit identity prefers the device
// MAC over the username: the same phone reappearing under a voucher gets the
// same circuit and keeps its identifiers.
package hotspot
