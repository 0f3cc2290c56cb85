package domain

import "github.com/paulmach/orb"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// Point returns the coordinates as an orb point (x=lng, y=lat).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lng, c.Lat} }

// FromPoint converts an orb point back to coordinates.
func FromPoint(p orb.Point) Coordinates { return Coordinates{Lat: p.Lat(), Lng: p.Lon()} }

// BoundOf returns the smallest bound containing every given coordinate.
func BoundOf(first Coordinates, rest ...Coordinates) orb.Bound {
	b := first.Point().Bound()
	for _, c := range rest {
		b = b.Extend(c.Point())
	}
	return b
}
