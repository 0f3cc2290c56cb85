package dto

import "route-display-service/internal/adapters/scene"

type ErrorMessage struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=1000"`
}

// SessionOptionsRequest overrides display settings. Omitted fields keep defaults.
type SessionOptionsRequest struct {
	RouteDisplay     string                  `json:"route_display" validate:"max=200"`
	DistanceDisplay  string                  `json:"distance_display" validate:"max=200"`
	TimeDisplay      string                  `json:"time_display" validate:"max=200"`
	CopyrightDisplay string                  `json:"copyright_display" validate:"max=200"`
	WarningsDisplay  string                  `json:"warnings_display" validate:"max=200"`
	OriginIcon       string                  `json:"origin_icon" validate:"max=500"`
	DestinationIcon  string                  `json:"destination_icon" validate:"max=500"`
	Errors           map[string]ErrorMessage `json:"errors" validate:"omitempty,dive,keys,oneof=routeNotFound routeError originNotFound originError destinationNotFound destinationError,endkeys"`
}

type EndpointRequest struct {
	Address     string `json:"address" validate:"max=500"`
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=4000"`
}

type RouteRequest struct {
	Origin      EndpointRequest `json:"origin"`
	Destination EndpointRequest `json:"destination"`
}

type TotalsResponse struct {
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalMiles      float64 `json:"total_miles"`
	TotalSeconds    int     `json:"total_seconds"`
	DistanceText    string  `json:"distance_text"`
	DurationText    string  `json:"duration_text"`
}

type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Applied   *bool          `json:"applied,omitempty"`
	InfoOpen  bool           `json:"info_open"`
	Totals    TotalsResponse `json:"totals"`
	Errors    []ErrorMessage `json:"errors,omitempty"`
	State     scene.Snapshot `json:"state"`
}

type FormatResponse struct {
	Text string `json:"text"`
}
