// Package rating defines the normalized rating scale shared by the database
// and the file tag store, and the conversions to each store's native range.
//
// Conversions round half up and are round-trip stable: converting a native
// value to the normalized scale and back yields the original value.
package rating

import "math"

// Rating is a track rating normalized to [0, 1]. The zero value means
// unrated: neither store distinguishes "rated zero" from "no rating".
type Rating float64

const (
	// POPMMax is the highest value a POPM frame rating byte can hold.
	POPMMax = 255
	// StarsMax is the highest star rating the database stores.
	StarsMax = 5
)

// Rated reports whether r carries an actual rating.
func (r Rating) Rated() bool {
	return r > 0
}

// POPM converts r to the POPM byte scale.
func (r Rating) POPM() uint8 {
	return uint8(roundHalfUp(r.clamp() * POPMMax))
}

// Stars converts r to the database star scale.
func (r Rating) Stars() int {
	return roundHalfUp(r.clamp() * StarsMax)
}

func (r Rating) clamp() float64 {
	return math.Min(math.Max(float64(r), 0), 1)
}

// FromPOPM converts a POPM rating byte to the normalized scale.
func FromPOPM(b uint8) Rating {
	return Rating(float64(b) / POPMMax)
}

// FromStars converts a star count to the normalized scale. Out-of-range
// values are clamped.
func FromStars(n int) Rating {
	if n < 0 {
		n = 0
	}
	if n > StarsMax {
		n = StarsMax
	}
	return Rating(float64(n) / StarsMax)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
