package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestSettingsMerge(t *testing.T) {
	s := DefaultSettings()
	called := false

	s.Merge(Options{
		RouteDisplay: "#steps",
		OriginIcon:   "/img/a.png",
		ShowError:    func(title, message string) { called = true },
		Errors: map[ErrorKind]RouteError{
			ErrOriginNotFound:  {Title: "Where?", Message: "Unknown start."},
			ErrorKind("bogus"): {Title: "x", Message: "y"},
		},
	})

	assert.Equal(t, "#steps", s.RouteDisplay)
	assert.Equal(t, "#distance", s.DistanceDisplay)
	assert.Equal(t, "/img/a.png", s.OriginIcon)
	assert.Equal(t, "images/map-destination.png", s.DestinationIcon)

	assert.Equal(t, RouteError{Title: "Where?", Message: "Unknown start."}, s.Error(ErrOriginNotFound))
	assert.Equal(t, DefaultSettings().Errors[ErrOriginError], s.Error(ErrOriginError))
	assert.Len(t, s.Errors, len(ErrorKinds))

	s.ShowError("t", "m")
	assert.True(t, called)
}

func TestSettingsMergeKeepsCallback(t *testing.T) {
	s := DefaultSettings()
	s.Merge(Options{ShowError: func(string, string) {}})
	s.Merge(Options{TimeDisplay: "#eta"})

	assert.NotNil(t, s.ShowError)
	assert.Equal(t, "#eta", s.TimeDisplay)
}

func TestErrorKindValid(t *testing.T) {
	for _, k := range ErrorKinds {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, ErrorKind("routeMissing").Valid())
}

func TestMetersToMiles(t *testing.T) {
	assert.InDelta(t, 0.621371192, MetersToMiles(1000), 1e-12)
	assert.Zero(t, MetersToMiles(0))
}

func TestRouteEndpoints(t *testing.T) {
	var nilRoute *Route
	_, ok := nilRoute.Start()
	assert.False(t, ok)
	_, ok = nilRoute.FirstLeg()
	assert.False(t, ok)

	a := Coordinates{Lat: 51.5, Lng: -0.12}
	b := Coordinates{Lat: 51.6, Lng: -0.10}
	r := &Route{OverviewPath: orb.LineString{a.Point(), b.Point()}}

	start, ok := r.Start()
	assert.True(t, ok)
	assert.Equal(t, a, start)

	end, ok := r.End()
	assert.True(t, ok)
	assert.Equal(t, b, end)

	bound := BoundOf(b, a)
	assert.Equal(t, a.Point(), bound.Min)
	assert.Equal(t, b.Point(), bound.Max)
}
