package inventory

import "math/rand"

// idAlphabet matches the token alphabet of the shaping engine's device IDs:
// digits and uppercase letters.
const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewIDGenerator returns a generator of fixed-length opaque identifiers.
// Collision probability over the alphabet is accepted as negligible; no
// collision detection is performed.
func NewIDGenerator(rng *rand.Rand, length int) func() string {
	if length <= 0 {
		length = 8
	}
	return func() string {
		b := make([]byte, length)
		for i := range b {
			b[i] = idAlphabet[rng.Intn(len(idAlphabet))]
		}
		return string(b)
	}
}
