package domain

import "github.com/paulmach/orb"

// MetersToMiles converts a provider distance in meters to statute miles.
func MetersToMiles(meters int) float64 {
	return float64(meters) / 1000 * 0.621371192
}

// Represents a single maneuver within a leg.
// Instructions carry provider-supplied HTML (e.g. "Turn <b>left</b>").
// DistanceText is the provider's short, human-readable step distance.
type Step struct {
	Instructions    string
	DistanceMeters  int
	DistanceText    string
	DurationSeconds int
	Start           Coordinates
	End             Coordinates
}

// Bound returns the box spanning the step's start and end.
func (s Step) Bound() orb.Bound {
	return BoundOf(s.Start, s.End)
}

// Represents one origin-to-destination segment of a computed route.
type Leg struct {
	DistanceMeters  int
	DurationSeconds int
	Steps           []Step
}

// Represents a computed driving route as returned by a directions provider.
// Only the first leg is ever read; additional legs are carried through
// untouched for providers that return them.
type Route struct {
	Legs         []Leg
	OverviewPath orb.LineString
	Bounds       orb.Bound
	Copyrights   string
	Warnings     []string
}

// FirstLeg returns leg 0, or false when the route has no legs.
func (r *Route) FirstLeg() (Leg, bool) {
	if r == nil || len(r.Legs) == 0 {
		return Leg{}, false
	}
	return r.Legs[0], true
}

// Start returns the first point of the overview path.
func (r *Route) Start() (Coordinates, bool) {
	if r == nil || len(r.OverviewPath) == 0 {
		return Coordinates{}, false
	}
	return FromPoint(r.OverviewPath[0]), true
}

// End returns the last point of the overview path.
func (r *Route) End() (Coordinates, bool) {
	if r == nil || len(r.OverviewPath) == 0 {
		return Coordinates{}, false
	}
	return FromPoint(r.OverviewPath[len(r.OverviewPath)-1]), true
}

// Endpoint is the caller's description of an origin or destination.
// An empty Address means the endpoint is absent.
type Endpoint struct {
	Address     string
	Title       string
	Description string
}

// HasAddress reports whether the endpoint carries an address to resolve.
func (e Endpoint) HasAddress() bool { return e.Address != "" }
