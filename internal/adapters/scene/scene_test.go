package scene

import (
	"encoding/json"
	"route-display-service/internal/domain"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneMarkers(t *testing.T) {
	s := New()

	a := s.AddMarker(domain.Marker{Title: "A", Position: domain.Coordinates{Lat: 1, Lng: 2}})
	b := s.AddMarker(domain.Marker{Title: "B", Position: domain.Coordinates{Lat: 3, Lng: 4}})
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.MarkerCount())

	s.RemoveMarker(a)
	s.RemoveMarker(a)

	snap := s.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, "B", snap.Markers[0].Title)
	assert.Equal(t, [2]float64{3, 4}, snap.Markers[0].Position)
}

func TestSceneRegions(t *testing.T) {
	s := New()

	s.SetText("#distance", "3 miles")
	s.SetVisible("#warnings", false)
	s.SetHTML("#warnings", "<p>Tolls</p>")

	snap := s.Snapshot()
	assert.Equal(t, Region{Text: "3 miles", Visible: true}, snap.Regions["#distance"])
	assert.Equal(t, Region{HTML: "<p>Tolls</p>", Visible: false}, snap.Regions["#warnings"])

	s.SetVisible("#warnings", true)
	s.SetText("#warnings", "plain")
	assert.Equal(t, Region{Text: "plain", Visible: true}, s.Snapshot().Regions["#warnings"])
}

func TestSceneRouteAndViewport(t *testing.T) {
	s := New()
	s.Configure(domain.DefaultMapOptions(), domain.DefaultRendererOptions())

	center := domain.DefaultMapOptions().Center
	assert.Equal(t, [2][2]float64{{center.Lat, center.Lng}, {center.Lat, center.Lng}}, s.Snapshot().Map.Viewport)

	path := orb.LineString{{-0.1281, 51.5080}, {-0.0984, 51.5138}}
	s.AttachRoute(&domain.Route{OverviewPath: path, Bounds: path.Bound(), Copyrights: "Map data"})

	snap := s.Snapshot()
	assert.Equal(t, [2][2]float64{{51.5080, -0.1281}, {51.5138, -0.0984}}, snap.Map.Viewport)
	require.NotNil(t, snap.Route)

	raw, err := json.Marshal(snap.Route)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "Feature",
		"bbox": [-0.1281, 51.508, -0.0984, 51.5138],
		"geometry": {"type": "LineString", "coordinates": [[-0.1281, 51.508], [-0.0984, 51.5138]]},
		"properties": {"copyrights": "Map data"}
	}`, string(raw))

	s.DetachRoute()
	assert.Nil(t, s.Snapshot().Route)
}

func TestSceneInfoAndAlerts(t *testing.T) {
	s := New()

	s.OpenInfo(domain.InfoWindow{
		Position: domain.Coordinates{Lat: 51, Lng: 0},
		Content:  "<p>Here</p>",
		Offset:   domain.MarkerPopupOffset,
	})
	snap := s.Snapshot()
	require.NotNil(t, snap.Info)
	assert.Equal(t, InfoSnapshot{Position: [2]float64{51, 0}, Content: "<p>Here</p>", OffsetY: -18}, *snap.Info)

	s.CloseInfo()
	assert.Nil(t, s.Snapshot().Info)

	s.Alert("Route not found - Sorry")
	assert.Equal(t, []string{"Route not found - Sorry"}, s.Snapshot().Alerts)
	assert.Equal(t, []string{"Route not found - Sorry"}, s.DrainAlerts())
	assert.Empty(t, s.DrainAlerts())
}
