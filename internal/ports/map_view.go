package ports

import (
	"route-display-service/internal/domain"

	"github.com/paulmach/orb"
)

// MarkerID identifies a marker placed on a MapView.
type MarkerID int

// Port: the map widget a session draws on.
type MapView interface {
	Configure(opts domain.MapOptions, renderer domain.RendererOptions)
	AddMarker(m domain.Marker) MarkerID
	RemoveMarker(id MarkerID)
	FitBounds(b orb.Bound)
	// AttachRoute hands a route to the renderer and shows it on the map.
	AttachRoute(r *domain.Route)
	DetachRoute()
	OpenInfo(w domain.InfoWindow)
	CloseInfo()
}

// Port: the page regions around the map, addressed by selector.
type Page interface {
	SetText(target string, text string)
	SetHTML(target string, html string)
	SetVisible(target string, visible bool)
	// Alert is the blocking fallback used when no error callback is configured.
	Alert(message string)
}
