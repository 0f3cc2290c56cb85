package domain

// MapOptions configures the map widget at bootstrap.
type MapOptions struct {
	Center            Coordinates
	Zoom              int
	MaxZoom           int
	MapType           string
	MapTypeControl    bool
	StreetViewControl bool
}

// RendererOptions configures how an attached route is drawn.
type RendererOptions struct {
	Draggable       bool
	HideRouteList   bool
	SuppressMarkers bool
}

// DefaultMapOptions centres the map on the United Kingdom.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Center:  Coordinates{Lat: 53.9728, Lng: -3.054199},
		Zoom:    5,
		MaxZoom: 16,
		MapType: "roadmap",
	}
}

// DefaultRendererOptions leaves marker drawing and the step list to the session.
func DefaultRendererOptions() RendererOptions {
	return RendererOptions{
		Draggable:       true,
		HideRouteList:   true,
		SuppressMarkers: true,
	}
}

// Marker is a pin placed on the map for one endpoint.
type Marker struct {
	Title    string
	Icon     string
	Position Coordinates
	Animate  bool
}

// PixelOffset shifts a popup relative to its anchor.
type PixelOffset struct {
	X int
	Y int
}

// MarkerPopupOffset lifts a marker popup above the pin.
var MarkerPopupOffset = &PixelOffset{X: 0, Y: -18}

// InfoWindow is the content and anchor of the shared info popup.
type InfoWindow struct {
	Position Coordinates
	Content  string
	Offset   *PixelOffset
}
