// Package routeros is the source transport: it pulls rows from router
// resource paths (/ppp/secret, /ip/hotspot/active, /ip/dhcp-server/lease,
// ...) over the RouterOS v7 REST API.
//
// The binary API wire protocol is deliberately out of scope; the Client
// interface keeps the source processors independent of the transport so
// tests drive them with canned records.
package routeros
