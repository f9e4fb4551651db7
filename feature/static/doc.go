// Package static feeds the operator-curated device list into the cycle.
//
// Static devices represent infrastructure and priority customers: their
// address claims beat any dynamic observation, and they are never pruned
// while the list still names them.
package static
