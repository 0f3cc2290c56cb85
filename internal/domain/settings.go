package domain

// ErrorKind names one of the failure categories surfaced to the host.
type ErrorKind string

const (
	ErrRouteNotFound       ErrorKind = "routeNotFound"
	ErrRouteError          ErrorKind = "routeError"
	ErrOriginNotFound      ErrorKind = "originNotFound"
	ErrOriginError         ErrorKind = "originError"
	ErrDestinationNotFound ErrorKind = "destinationNotFound"
	ErrDestinationError    ErrorKind = "destinationError"
)

// ErrorKinds lists every kind in a stable order.
var ErrorKinds = []ErrorKind{
	ErrRouteNotFound,
	ErrRouteError,
	ErrOriginNotFound,
	ErrOriginError,
	ErrDestinationNotFound,
	ErrDestinationError,
}

// Valid reports whether k is one of the known kinds.
func (k ErrorKind) Valid() bool {
	for _, known := range ErrorKinds {
		if k == known {
			return true
		}
	}
	return false
}

// RouteError is the title/message pair shown to the user for an ErrorKind.
type RouteError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Settings is the display configuration of a session.
// Targets are selectors understood by the host page.
type Settings struct {
	RouteDisplay     string
	DistanceDisplay  string
	TimeDisplay      string
	CopyrightDisplay string
	WarningsDisplay  string
	OriginIcon       string
	DestinationIcon  string

	// ShowError receives every reported error. When nil the page alert is used.
	ShowError func(title, message string)
	Errors    map[ErrorKind]RouteError
}

// DefaultSettings returns a fresh copy of the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		RouteDisplay:     "#directions",
		DistanceDisplay:  "#distance",
		TimeDisplay:      "#time",
		CopyrightDisplay: "#copyright",
		WarningsDisplay:  "#warnings",
		OriginIcon:       "images/map-origin.png",
		DestinationIcon:  "images/map-destination.png",
		Errors: map[ErrorKind]RouteError{
			ErrRouteNotFound: {
				Title:   "Route not found",
				Message: "Sorry, no route could be found between the specified addresses.",
			},
			ErrRouteError: {
				Title:   "Routing error",
				Message: "Sorry, there was a problem calculating the route. Please try later.",
			},
			ErrOriginNotFound: {
				Title:   "Origin not found",
				Message: "Sorry, the origin address could not be found.",
			},
			ErrOriginError: {
				Title:   "Origin error",
				Message: "Sorry, there was a problem trying to locate the origin address. Please try later.",
			},
			ErrDestinationNotFound: {
				Title:   "Destination not found",
				Message: "Sorry, the destination address could not be found.",
			},
			ErrDestinationError: {
				Title:   "Destination error",
				Message: "Sorry, there was a problem trying to locate the destination address. Please try later.",
			},
		},
	}
}

// Options are caller overrides for Settings. Zero values leave the
// current setting untouched.
type Options struct {
	RouteDisplay     string
	DistanceDisplay  string
	TimeDisplay      string
	CopyrightDisplay string
	WarningsDisplay  string
	OriginIcon       string
	DestinationIcon  string
	ShowError        func(title, message string)
	Errors           map[ErrorKind]RouteError
}

// Merge applies opts over s, one level deep.
// Error kinds are replaced individually; unknown kinds are ignored.
func (s *Settings) Merge(opts Options) {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	override(&s.RouteDisplay, opts.RouteDisplay)
	override(&s.DistanceDisplay, opts.DistanceDisplay)
	override(&s.TimeDisplay, opts.TimeDisplay)
	override(&s.CopyrightDisplay, opts.CopyrightDisplay)
	override(&s.WarningsDisplay, opts.WarningsDisplay)
	override(&s.OriginIcon, opts.OriginIcon)
	override(&s.DestinationIcon, opts.DestinationIcon)

	if opts.ShowError != nil {
		s.ShowError = opts.ShowError
	}

	if s.Errors == nil {
		s.Errors = make(map[ErrorKind]RouteError, len(ErrorKinds))
	}
	for kind, e := range opts.Errors {
		if !kind.Valid() {
			continue
		}
		s.Errors[kind] = e
	}
}

// Error returns the configured title/message for kind.
func (s *Settings) Error(kind ErrorKind) RouteError {
	if e, ok := s.Errors[kind]; ok {
		return e
	}
	return DefaultSettings().Errors[kind]
}
