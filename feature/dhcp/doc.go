// Package dhcp collects bound DHCP leases.
//
// Lease hostnames make friendlier circuit names but are client-controlled
// and optional; the MAC serves as the fallback identity. Leases without a
// MAC cannot be matched to a device and are ignored.
package dhcp
