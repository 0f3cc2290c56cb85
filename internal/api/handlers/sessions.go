package handlers

import (
	"context"
	"net/http"
	"route-display-service/internal/api/dto"
	"route-display-service/internal/domain"
	"route-display-service/internal/services"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type SessionHandler struct {
	Store *SessionStore
	Log   *zap.Logger

	// RouteTimeout caps the provider calls made by one route request; zero means no cap.
	RouteTimeout time.Duration
}

func (h *SessionHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.L()
	}
	return h.Log
}

// Create opens a new map session with optional display settings.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.SessionOptionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entry := h.Store.Create(optionsFromRequest(req))
	h.logger().Info("session created", zap.String("session_id", entry.ID))

	writeJSON(w, r, http.StatusCreated, sessionResponse(entry, nil))
}

// Session returns (GET), reconfigures (PATCH) or discards (DELETE) a session.
func (h *SessionHandler) Session(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		entry, ok := h.lookup(w, r)
		if !ok {
			return
		}
		writeJSON(w, r, http.StatusOK, sessionResponse(entry, nil))

	case http.MethodPatch:
		entry, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req dto.SessionOptionsRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		entry.Session.Init(optionsFromRequest(req))
		h.logger().Info("session reconfigured", zap.String("session_id", id))
		writeJSON(w, r, http.StatusOK, sessionResponse(entry, nil))

	case http.MethodDelete:
		if !h.Store.Delete(id) {
			writeError(w, r, http.StatusNotFound, "session not found")
			return
		}
		h.logger().Info("session deleted", zap.String("session_id", id))
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPatch+", "+http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Route replaces the session's route with one between the given endpoints.
// Provider failures are reported in the response's errors, not as HTTP errors.
func (h *SessionHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dto.RouteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if h.RouteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RouteTimeout)
		defer cancel()
	}

	entry.Session.Route(ctx, endpointFromRequest(req.Origin), endpointFromRequest(req.Destination))

	writeJSON(w, r, http.StatusOK, sessionResponse(entry, nil))
}

func (h *SessionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	applied := entry.Session.Overview()
	writeJSON(w, r, http.StatusOK, sessionResponse(entry, &applied))
}

func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	entry.Session.Clear()
	writeJSON(w, r, http.StatusOK, sessionResponse(entry, nil))
}

// Step focuses the map on one step of the route.
func (h *SessionHandler) Step(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}

	applied := entry.Session.SelectStep(index)
	writeJSON(w, r, http.StatusOK, sessionResponse(entry, &applied))
}

// Marker toggles the popup of the origin or destination marker.
func (h *SessionHandler) Marker(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var role services.EndpointRole
	switch which := r.PathValue("which"); which {
	case string(services.RoleOrigin):
		role = services.RoleOrigin
	case string(services.RoleDestination):
		role = services.RoleDestination
	default:
		writeError(w, r, http.StatusBadRequest, "marker must be origin or destination")
		return
	}

	applied := entry.Session.MarkerClicked(role)
	writeJSON(w, r, http.StatusOK, sessionResponse(entry, &applied))
}

func (h *SessionHandler) CloseInfo(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	entry.Scene.CloseInfo()
	entry.Session.InfoClosed()
	writeJSON(w, r, http.StatusOK, sessionResponse(entry, nil))
}

func (h *SessionHandler) Totals(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, totals(entry.Session))
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*SessionEntry, bool) {
	entry, ok := h.Store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return nil, false
	}
	return entry, true
}

func optionsFromRequest(req dto.SessionOptionsRequest) domain.Options {
	opts := domain.Options{
		RouteDisplay:     req.RouteDisplay,
		DistanceDisplay:  req.DistanceDisplay,
		TimeDisplay:      req.TimeDisplay,
		CopyrightDisplay: req.CopyrightDisplay,
		WarningsDisplay:  req.WarningsDisplay,
		OriginIcon:       req.OriginIcon,
		DestinationIcon:  req.DestinationIcon,
	}

	if len(req.Errors) > 0 {
		opts.Errors = make(map[domain.ErrorKind]domain.RouteError, len(req.Errors))
		for k, v := range req.Errors {
			opts.Errors[domain.ErrorKind(k)] = domain.RouteError{Title: v.Title, Message: v.Message}
		}
	}

	return opts
}

func endpointFromRequest(req dto.EndpointRequest) domain.Endpoint {
	return domain.Endpoint{
		Address:     req.Address,
		Title:       req.Title,
		Description: req.Description,
	}
}

func totals(s *services.Session) dto.TotalsResponse {
	return dto.TotalsResponse{
		DistanceMiles:   s.Distance(),
		DurationMinutes: s.Duration(),
		TotalMiles:      s.TotalMiles(),
		TotalSeconds:    s.TotalSeconds(),
		DistanceText:    s.FormattedDistance(),
		DurationText:    s.FormattedDuration(),
	}
}

// sessionResponse snapshots the session and collects pending errors and alerts.
func sessionResponse(entry *SessionEntry, applied *bool) dto.SessionResponse {
	res := dto.SessionResponse{
		SessionID: entry.ID,
		Applied:   applied,
		InfoOpen:  entry.Session.InfoOpen(),
		Totals:    totals(entry.Session),
		State:     entry.Scene.Snapshot(),
	}
	entry.Scene.DrainAlerts()

	for _, e := range entry.drainErrors() {
		res.Errors = append(res.Errors, dto.ErrorMessage{Title: e.Title, Message: e.Message})
	}

	return res
}
