// Package rate normalizes heterogeneous bandwidth expressions into Mbps.
//
// Router sources report bandwidth as "<rx>/<tx>" strings with optional k/m/g
// unit suffixes ("20M/5M", "512k/512k", "1g/1g"). ParsePair turns those into
// a numeric Pair; DeriveMax and DeriveMin apply the engine-wide scaling
// factors that produce the shaped ceiling and committed minimum. Every
// derived value is floored at FloorMbps (2 Mbps).
//
// The package also carries ProfileCache, a bounded recency cache for
// profile-to-rate lookups so one router profile is fetched once per cycle
// rather than once per subscriber.
package rate
