// Package inventory holds the canonical shaped-device table.
//
// A Record is one rate-limited subscriber circuit; the Table keys records by
// circuit name (the stable identity) and maintains an IPv4 ownership index
// for conflict resolution. BuildOrUpdate is the single structural mutation
// point for inserts and updates: new records receive two opaque generated
// identifiers that are never regenerated afterwards.
//
// The package also provides the fixed-column CSV codec for the persisted
// table consumed by the external shaping engine.
package inventory
