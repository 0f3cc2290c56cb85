package services

import (
	"context"
	"errors"
	"route-display-service/internal/domain"
	"route-display-service/internal/platform/obs"
	"route-display-service/internal/ports"
	"sync"

	"go.uber.org/zap"
)

// Which endpoint a marker belongs to.
type EndpointRole string

const (
	RoleOrigin      EndpointRole = "origin"
	RoleDestination EndpointRole = "destination"
)

type placedMarker struct {
	id       ports.MarkerID
	position domain.Coordinates
	content  string
}

// Session renders routes between two endpoints onto one map view and its page.
//
// A Session owns:
//   - the display settings merged by Init
//   - at most one attached route and two endpoint markers
//   - the cached totals of the attached route
//
// Provider calls run without the lock held. Every Route or Clear starts a new
// generation; responses belonging to an older generation are dropped.
//
// The session is safe for concurrent use.
type Session struct {
	mapView    ports.MapView
	page       ports.Page
	directions ports.DirectionsProvider
	geocoder   ports.Geocoder
	log        *zap.Logger

	mu           sync.Mutex
	settings     domain.Settings
	generation   uint64
	route        *domain.Route
	origin       *placedMarker
	destination  *placedMarker
	infoOpen     bool
	totalMiles   float64
	totalSeconds int
}

func NewSession(
	mapView ports.MapView,
	page ports.Page,
	directions ports.DirectionsProvider,
	geocoder ports.Geocoder,
	log *zap.Logger,
) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		mapView:    mapView,
		page:       page,
		directions: directions,
		geocoder:   geocoder,
		log:        log,
		settings:   domain.DefaultSettings(),
	}
}

// Init merges opts over the current settings and (re)bootstraps the map.
// Any route already on the map is torn down.
func (s *Session) Init(opts domain.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Merge(opts)
	s.teardownLocked()
	s.totalMiles = 0
	s.totalSeconds = 0

	s.mapView.Configure(domain.DefaultMapOptions(), domain.DefaultRendererOptions())
}

// Route clears the current route and resolves the given endpoints.
//
// With both addresses a driving route is requested; with one, only that
// address is geocoded and marked. With neither nothing happens.
// Failures are reported through the error callback, never returned.
func (s *Session) Route(ctx context.Context, origin, destination domain.Endpoint) {
	s.mu.Lock()
	s.teardownLocked()
	s.routeChangedLocked()
	gen := s.generation
	s.mu.Unlock()

	var report *domain.ErrorKind
	switch {
	case origin.HasAddress() && destination.HasAddress():
		report = s.routeBetween(ctx, gen, origin, destination)
	case origin.HasAddress():
		report = s.locate(ctx, gen, RoleOrigin, origin)
	case destination.HasAddress():
		report = s.locate(ctx, gen, RoleDestination, destination)
	default:
		return
	}

	if report != nil {
		s.showError(gen, *report)
	}
}

func (s *Session) routeBetween(
	ctx context.Context,
	gen uint64,
	origin domain.Endpoint,
	destination domain.Endpoint,
) *domain.ErrorKind {
	route, err := s.fetchDirections(ctx, origin.Address, destination.Address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.log.Debug("discarding stale directions response",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation),
		)
		return nil
	}

	switch {
	case errors.Is(err, ports.ErrNotFound):
		return kind(domain.ErrRouteNotFound)
	case err != nil:
		s.log.Warn("directions request failed", zap.Error(err))
		return kind(domain.ErrRouteError)
	}

	start, okStart := route.Start()
	end, okEnd := route.End()
	if !okStart || !okEnd {
		s.log.Warn("directions response has no overview path")
		return kind(domain.ErrRouteError)
	}

	s.route = route
	s.mapView.AttachRoute(route)
	s.routeChangedLocked()

	s.origin = s.placeLocked(s.origin, origin, s.settings.OriginIcon, start)
	s.destination = s.placeLocked(s.destination, destination, s.settings.DestinationIcon, end)
	s.showInfoLocked(s.origin)

	s.log.Info("route displayed",
		zap.String("origin", origin.Address),
		zap.String("destination", destination.Address),
		zap.Float64("miles", s.totalMiles),
		zap.Int("seconds", s.totalSeconds),
	)

	return nil
}

func (s *Session) fetchDirections(ctx context.Context, origin, destination string) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "session.directions")(&err)

	route, err := s.directions.Directions(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, errors.New("directions: provider returned no route")
	}
	return route, nil
}

func (s *Session) locate(
	ctx context.Context,
	gen uint64,
	role EndpointRole,
	endpoint domain.Endpoint,
) *domain.ErrorKind {
	coords, err := s.fetchGeocode(ctx, endpoint.Address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.log.Debug("discarding stale geocode response",
			zap.String("role", string(role)),
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation),
		)
		return nil
	}

	notFound, failed := domain.ErrOriginNotFound, domain.ErrOriginError
	if role == RoleDestination {
		notFound, failed = domain.ErrDestinationNotFound, domain.ErrDestinationError
	}

	switch {
	case errors.Is(err, ports.ErrNotFound):
		return kind(notFound)
	case err != nil:
		s.log.Warn("geocode request failed", zap.String("role", string(role)), zap.Error(err))
		return kind(failed)
	}

	if role == RoleOrigin {
		s.origin = s.placeLocked(s.origin, endpoint, s.settings.OriginIcon, coords)
		s.showInfoLocked(s.origin)
	} else {
		s.destination = s.placeLocked(s.destination, endpoint, s.settings.DestinationIcon, coords)
		s.showInfoLocked(s.destination)
	}

	return nil
}

func (s *Session) fetchGeocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "session.geocode")(&err)
	return s.geocoder.Geocode(ctx, address)
}

// Clear removes markers, route and popup, and resets the totals.
// Responses to requests still in flight are dropped.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()
	s.routeChangedLocked()
}

// teardownLocked removes both markers, detaches the route and closes the popup.
func (s *Session) teardownLocked() {
	s.generation++

	if s.origin != nil {
		s.mapView.RemoveMarker(s.origin.id)
		s.origin = nil
	}
	if s.destination != nil {
		s.mapView.RemoveMarker(s.destination.id)
		s.destination = nil
	}

	s.route = nil
	s.mapView.DetachRoute()
	s.closeInfoLocked()
}

// routeChangedLocked recomputes totals and redraws every page target from
// the attached route. Only the first leg of the route is read.
func (s *Session) routeChangedLocked() {
	var (
		meters     int
		seconds    int
		steps      []domain.Step
		warnings   []string
		copyrights string
	)

	if leg, ok := s.route.FirstLeg(); ok {
		meters = leg.DistanceMeters
		seconds = leg.DurationSeconds
		steps = leg.Steps
	}
	if s.route != nil {
		warnings = s.route.Warnings
		copyrights = s.route.Copyrights
	}

	s.totalMiles = domain.MetersToMiles(meters)
	s.totalSeconds = seconds

	s.page.SetText(s.settings.DistanceDisplay, FormatDistance(s.totalMiles))
	s.page.SetText(s.settings.TimeDisplay, FormatDuration(float64(s.totalSeconds)))

	stepsHTML, err := renderSteps(steps)
	if err != nil {
		s.log.Error("render route steps", zap.Error(err))
		stepsHTML = ""
	}
	s.page.SetHTML(s.settings.RouteDisplay, stepsHTML)

	s.page.SetText(s.settings.CopyrightDisplay, copyrights)

	warningsHTML, err := renderWarnings(warnings)
	if err != nil {
		s.log.Error("render route warnings", zap.Error(err))
		warningsHTML = ""
	}
	s.page.SetHTML(s.settings.WarningsDisplay, warningsHTML)
	s.page.SetVisible(s.settings.WarningsDisplay, warningsHTML != "")
}

// SelectStep zooms to step i of the attached route and shows its instructions.
// It reports false when no route is attached or i is out of range.
func (s *Session) SelectStep(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	leg, ok := s.route.FirstLeg()
	if !ok || i < 0 || i >= len(leg.Steps) {
		return false
	}

	step := leg.Steps[i]
	s.mapView.FitBounds(step.Bound())
	s.openInfoLocked(domain.InfoWindow{Position: step.Start, Content: step.Instructions})

	return true
}

// Overview fits the whole attached route into view and reopens the origin popup.
func (s *Session) Overview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.route == nil {
		return false
	}

	s.mapView.FitBounds(s.route.Bounds)
	s.showInfoLocked(s.origin)

	return true
}

// MarkerClicked toggles the popup for the given endpoint's marker.
func (s *Session) MarkerClicked(role EndpointRole) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.origin
	if role == RoleDestination {
		m = s.destination
	}
	if m == nil {
		return false
	}

	if s.infoOpen {
		s.closeInfoLocked()
	} else {
		s.showInfoLocked(m)
	}
	return true
}

// InfoClosed records that the user closed the popup.
func (s *Session) InfoClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.infoOpen = false
}

// InfoOpen reports whether the shared popup is currently open.
func (s *Session) InfoOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.infoOpen
}

func (s *Session) placeLocked(
	prev *placedMarker,
	endpoint domain.Endpoint,
	icon string,
	at domain.Coordinates,
) *placedMarker {
	if prev != nil {
		s.mapView.RemoveMarker(prev.id)
	}

	id := s.mapView.AddMarker(domain.Marker{
		Title:    endpoint.Title,
		Icon:     icon,
		Position: at,
		Animate:  true,
	})

	return &placedMarker{id: id, position: at, content: endpoint.Description}
}

func (s *Session) showInfoLocked(m *placedMarker) {
	if m == nil {
		return
	}
	s.openInfoLocked(domain.InfoWindow{
		Position: m.position,
		Content:  m.content,
		Offset:   domain.MarkerPopupOffset,
	})
}

func (s *Session) openInfoLocked(w domain.InfoWindow) {
	s.mapView.OpenInfo(w)
	s.infoOpen = true
}

func (s *Session) closeInfoLocked() {
	s.mapView.CloseInfo()
	s.infoOpen = false
}

// showError passes the configured error to the callback, or alerts the page.
// Nothing is reported once a later Route, Clear or Init has superseded gen.
func (s *Session) showError(gen uint64, k domain.ErrorKind) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug("discarding stale route error", zap.String("kind", string(k)))
		return
	}
	e := s.settings.Error(k)
	callback := s.settings.ShowError
	s.mu.Unlock()

	s.log.Info("route error reported", zap.String("kind", string(k)))

	if callback != nil {
		callback(e.Title, e.Message)
		return
	}
	s.page.Alert(e.Title + " - " + e.Message)
}

func kind(k domain.ErrorKind) *domain.ErrorKind { return &k }

// Distance returns the attached route's length rounded to the nearest half mile.
func (s *Session) Distance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoundMiles(s.totalMiles)
}

// Duration returns the attached route's duration in whole minutes.
func (s *Session) Duration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoundMinutes(float64(s.totalSeconds))
}

// TotalMiles returns the unrounded length of the attached route.
func (s *Session) TotalMiles() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalMiles
}

// TotalSeconds returns the unrounded duration of the attached route.
func (s *Session) TotalSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSeconds
}

func (s *Session) FormattedDistance() string {
	return FormatDistance(s.TotalMiles())
}

func (s *Session) FormattedDuration() string {
	return FormatDuration(float64(s.TotalSeconds()))
}
