// Package scene is an in-memory map view and page. It records what a
// session draws so that a front-end can replay it from a snapshot.
package scene

import (
	"route-display-service/internal/domain"
	"route-display-service/internal/ports"
	"sort"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Region is the content of one page target.
type Region struct {
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
	Visible bool   `json:"visible"`
}

var (
	_ ports.MapView = (*Scene)(nil)
	_ ports.Page    = (*Scene)(nil)
)

// Scene implements ports.MapView and ports.Page. It is safe for concurrent use.
type Scene struct {
	mu sync.Mutex

	options  domain.MapOptions
	renderer domain.RendererOptions
	nextID   ports.MarkerID
	markers  map[ports.MarkerID]domain.Marker
	route    *domain.Route
	viewport orb.Bound
	info     *domain.InfoWindow
	regions  map[string]Region
	alerts   []string
}

func New() *Scene {
	return &Scene{
		markers: make(map[ports.MarkerID]domain.Marker),
		regions: make(map[string]Region),
	}
}

func (s *Scene) Configure(opts domain.MapOptions, renderer domain.RendererOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = opts
	s.renderer = renderer
	s.viewport = opts.Center.Point().Bound()
}

func (s *Scene) AddMarker(m domain.Marker) ports.MarkerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.markers[s.nextID] = m
	return s.nextID
}

func (s *Scene) RemoveMarker(id ports.MarkerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.markers, id)
}

func (s *Scene) FitBounds(b orb.Bound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = b
}

// AttachRoute draws r and fits the viewport to its bounds.
func (s *Scene) AttachRoute(r *domain.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = r
	if r != nil && !r.Bounds.IsZero() {
		s.viewport = r.Bounds
	}
}

func (s *Scene) DetachRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = nil
}

func (s *Scene) OpenInfo(w domain.InfoWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.info = &w
}

func (s *Scene) CloseInfo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.info = nil
}

func (s *Scene) SetText(target string, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.regions[target]
	r.Text, r.HTML = text, ""
	if _, seen := s.regions[target]; !seen {
		r.Visible = true
	}
	s.regions[target] = r
}

func (s *Scene) SetHTML(target string, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.regions[target]
	r.HTML, r.Text = html, ""
	if _, seen := s.regions[target]; !seen {
		r.Visible = true
	}
	s.regions[target] = r
}

func (s *Scene) SetVisible(target string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.regions[target]
	r.Visible = visible
	s.regions[target] = r
}

func (s *Scene) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts = append(s.alerts, message)
}

// DrainAlerts returns and forgets the alerts raised since the last call.
func (s *Scene) DrainAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.alerts
	s.alerts = nil
	return out
}

// MarkerCount returns the number of markers currently on the map.
func (s *Scene) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.markers)
}

// Snapshot is a point-in-time copy of everything drawn.
type Snapshot struct {
	Map     MapSnapshot       `json:"map"`
	Markers []MarkerSnapshot  `json:"markers"`
	Route   *geojson.Feature  `json:"route,omitempty"`
	Info    *InfoSnapshot     `json:"info,omitempty"`
	Regions map[string]Region `json:"regions"`
	Alerts  []string          `json:"alerts,omitempty"`
}

type MapSnapshot struct {
	Center            [2]float64    `json:"center"`
	Zoom              int           `json:"zoom"`
	MaxZoom           int           `json:"max_zoom"`
	MapType           string        `json:"map_type"`
	MapTypeControl    bool          `json:"map_type_control"`
	StreetViewControl bool          `json:"street_view_control"`
	Viewport          [2][2]float64 `json:"viewport"`
	Draggable         bool          `json:"draggable"`
	HideRouteList     bool          `json:"hide_route_list"`
	SuppressMarkers   bool          `json:"suppress_markers"`
}

type MarkerSnapshot struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon"`
	Position [2]float64 `json:"position"`
	Animate  bool       `json:"animate"`
}

type InfoSnapshot struct {
	Position [2]float64 `json:"position"`
	Content  string     `json:"content"`
	OffsetX  int        `json:"offset_x"`
	OffsetY  int        `json:"offset_y"`
}

func latLng(c domain.Coordinates) [2]float64 { return [2]float64{c.Lat, c.Lng} }

// Snapshot copies the current scene. Coordinates are [lat, lng]; the route
// is a GeoJSON LineString feature ([lng, lat]) with its bbox set.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Map: MapSnapshot{
			Center:            latLng(s.options.Center),
			Zoom:              s.options.Zoom,
			MaxZoom:           s.options.MaxZoom,
			MapType:           s.options.MapType,
			MapTypeControl:    s.options.MapTypeControl,
			StreetViewControl: s.options.StreetViewControl,
			Viewport: [2][2]float64{
				{s.viewport.Min.Lat(), s.viewport.Min.Lon()},
				{s.viewport.Max.Lat(), s.viewport.Max.Lon()},
			},
			Draggable:       s.renderer.Draggable,
			HideRouteList:   s.renderer.HideRouteList,
			SuppressMarkers: s.renderer.SuppressMarkers,
		},
		Markers: make([]MarkerSnapshot, 0, len(s.markers)),
		Regions: make(map[string]Region, len(s.regions)),
		Alerts:  append([]string(nil), s.alerts...),
	}

	for id, m := range s.markers {
		snap.Markers = append(snap.Markers, MarkerSnapshot{
			ID:       int(id),
			Title:    m.Title,
			Icon:     m.Icon,
			Position: latLng(m.Position),
			Animate:  m.Animate,
		})
	}
	sort.Slice(snap.Markers, func(i, j int) bool { return snap.Markers[i].ID < snap.Markers[j].ID })

	if s.route != nil && len(s.route.OverviewPath) > 0 {
		f := geojson.NewFeature(s.route.OverviewPath.Clone())
		f.BBox = geojson.NewBBox(s.route.Bounds)
		f.Properties["copyrights"] = s.route.Copyrights
		snap.Route = f
	}

	if s.info != nil {
		info := &InfoSnapshot{Position: latLng(s.info.Position), Content: s.info.Content}
		if s.info.Offset != nil {
			info.OffsetX, info.OffsetY = s.info.Offset.X, s.info.Offset.Y
		}
		snap.Info = info
	}

	for k, v := range s.regions {
		snap.Regions[k] = v
	}

	return snap
}
