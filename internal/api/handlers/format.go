package handlers

import (
	"math"
	"net/http"
	"route-display-service/internal/api/dto"
	"route-display-service/internal/services"
	"strconv"
)

func FormatDistance(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	miles, ok := floatQuery(w, r, "miles")
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FormatResponse{Text: services.FormatDistance(miles)})
}

func FormatDuration(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	seconds, ok := floatQuery(w, r, "seconds")
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FormatResponse{Text: services.FormatDuration(seconds)})
}

func floatQuery(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, name+" is required")
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		writeError(w, r, http.StatusBadRequest, name+" must be a non-negative number")
		return 0, false
	}

	return v, true
}
