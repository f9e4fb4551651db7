package rate

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FloorMbps is the absolute lower bound for every stored min/max rate.
const FloorMbps = 2

// ErrUnparseable reports a rate string that cannot be split into an rx/tx
// pair at all. Callers are expected to substitute their configured default
// pair; the substitution is deliberately not hidden inside the parser.
var ErrUnparseable = errors.New("rate: unparseable rate string")

// Pair is a download/upload rate in Mbps.
type Pair struct {
	RxMbps float64
	TxMbps float64
}

// sideRe matches one side of a rate expression: an unsigned decimal number
// with an optional k/m/g unit suffix. Trailing characters are ignored.
var sideRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([kmgKMG])?`)

// ParsePair parses a RouterOS-style rate limit string into Mbps.
//
// Only the first whitespace-separated token is considered and it must contain
// "<rx>/<tx>". Each side may carry a case-insensitive k/m/g unit; a side
// without a unit is taken as Mbps already. A malformed side yields 0 for that
// side without failing the parse. Empty input and the literal "0/0" yield a
// zero pair. A token that cannot be split into two sides returns
// ErrUnparseable.
func ParsePair(text string) (Pair, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "0/0" {
		return Pair{}, nil
	}

	first := strings.Fields(text)[0]
	sides := strings.Split(first, "/")
	if len(sides) != 2 {
		return Pair{}, ErrUnparseable
	}

	return Pair{
		RxMbps: toMbps(sides[0]),
		TxMbps: toMbps(sides[1]),
	}, nil
}

// toMbps converts one side of a rate expression to Mbps, rounded to two
// decimal places. Malformed input converts to 0.
func toMbps(side string) float64 {
	m := sideRe.FindStringSubmatch(strings.TrimSpace(side))
	if m == nil {
		return 0
	}

	number, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	switch strings.ToLower(m[2]) {
	case "k":
		number /= 1000
	case "g":
		number *= 1000
	}

	return round2(number)
}

// DeriveMax computes the shaped ceiling from a base pair. Each side is
// floored after scaling and never drops below FloorMbps.
func DeriveMax(base Pair, maxFactor float64) Pair {
	return Pair{
		RxMbps: scaled(base.RxMbps, maxFactor),
		TxMbps: scaled(base.TxMbps, maxFactor),
	}
}

// DeriveMin computes the committed minimum from a max pair. Each side is
// floored after scaling and never drops below FloorMbps.
func DeriveMin(max Pair, minFactor float64) Pair {
	return Pair{
		RxMbps: scaled(max.RxMbps, minFactor),
		TxMbps: scaled(max.TxMbps, minFactor),
	}
}

// Clamp raises both sides of a pair to FloorMbps. Used for operator-supplied
// rates that bypass derivation.
func Clamp(p Pair) Pair {
	return Pair{
		RxMbps: math.Max(p.RxMbps, FloorMbps),
		TxMbps: math.Max(p.TxMbps, FloorMbps),
	}
}

func scaled(v, factor float64) float64 {
	return math.Max(math.Floor(v*factor), FloorMbps)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
