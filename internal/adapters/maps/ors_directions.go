package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"route-display-service/internal/domain"
	"route-display-service/internal/platform/obs"
	"route-display-service/internal/ports"

	"github.com/paulmach/orb"
)

type directionsRequest struct {
	Coordinates        [][]float64 `json:"coordinates"`
	Units              string      `json:"units"`
	Instructions       bool        `json:"instructions"`
	InstructionsFormat string      `json:"instructions_format"`
	Language           string      `json:"language,omitempty"`
}

type directionsResponse struct {
	BBox     []float64 `json:"bbox"`
	Features []struct {
		BBox       []float64 `json:"bbox"`
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Steps    []struct {
					Distance    float64 `json:"distance"`
					Duration    float64 `json:"duration"`
					Instruction string  `json:"instruction"`
					WayPoints   []int   `json:"way_points"`
				} `json:"steps"`
			} `json:"segments"`
			Warnings []struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"warnings"`
		} `json:"properties"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
	Metadata struct {
		Attribution string `json:"attribution"`
	} `json:"metadata"`
}

// Directions geocodes both addresses and requests a driving route between them
// from the OpenRouteService directions endpoint (GeoJSON response).
func (o *ORSProvider) Directions(
	ctx context.Context,
	origin string,
	destination string,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	normOrigin := normalize(origin)
	normDestination := normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return nil, errors.New("ors directions: origin and destination must be non-empty")
	}

	geocoder := o.geocoder()

	// Endpoint lookup failures surface as generic routing errors (%v, not %w).
	from, err := geocoder.Geocode(ctx, normOrigin)
	if err != nil {
		return nil, fmt.Errorf("ors directions: resolve origin: %v", err)
	}
	to, err := geocoder.Geocode(ctx, normDestination)
	if err != nil {
		return nil, fmt.Errorf("ors directions: resolve destination: %v", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:        [][]float64{from.CoordsToList(), to.CoordsToList()},
		Units:              "m",
		Instructions:       true,
		InstructionsFormat: "html",
	})
	if err != nil {
		return nil, fmt.Errorf("ors directions: marshal request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.orsCode() {
			case orsCodeRouteNotFound, orsCodePointNotFound:
				return nil, fmt.Errorf("ors directions %q -> %q: %w", normOrigin, normDestination, ports.ErrNotFound)
			}
		}
		return nil, fmt.Errorf("ors directions: request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("ors directions: decode response: %w", err)
	}

	if len(dr.Features) == 0 {
		return nil, fmt.Errorf("ors directions %q -> %q: %w", normOrigin, normDestination, ports.ErrNotFound)
	}

	return dr.toRoute()
}

// toRoute converts the first feature of a directions response.
// ORS reports one segment per pair of consecutive waypoints, which maps to a leg.
func (dr *directionsResponse) toRoute() (*domain.Route, error) {
	feature := dr.Features[0]

	path := make(orb.LineString, 0, len(feature.Geometry.Coordinates))
	for i, c := range feature.Geometry.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("ors directions: invalid coordinate at index %d", i)
		}
		path = append(path, orb.Point{c[0], c[1]})
	}
	if len(path) == 0 {
		return nil, errors.New("ors directions: route has no geometry")
	}

	pointAt := func(i int) domain.Coordinates {
		if i < 0 {
			i = 0
		}
		if i >= len(path) {
			i = len(path) - 1
		}
		return domain.FromPoint(path[i])
	}

	legs := make([]domain.Leg, 0, len(feature.Properties.Segments))
	for _, seg := range feature.Properties.Segments {
		steps := make([]domain.Step, 0, len(seg.Steps))
		for _, st := range seg.Steps {
			var start, end domain.Coordinates
			if len(st.WayPoints) == 2 {
				start, end = pointAt(st.WayPoints[0]), pointAt(st.WayPoints[1])
			}

			meters := int(math.Round(st.Distance))
			steps = append(steps, domain.Step{
				Instructions:    st.Instruction,
				DistanceMeters:  meters,
				DistanceText:    shortDistance(meters),
				DurationSeconds: int(math.Round(st.Duration)),
				Start:           start,
				End:             end,
			})
		}

		// ORS returns float metrics; round to nearest integer for domain consistency.
		legs = append(legs, domain.Leg{
			DistanceMeters:  int(math.Round(seg.Distance)),
			DurationSeconds: int(math.Round(seg.Duration)),
			Steps:           steps,
		})
	}

	warnings := make([]string, 0, len(feature.Properties.Warnings))
	for _, w := range feature.Properties.Warnings {
		warnings = append(warnings, w.Message)
	}

	bounds := path.Bound()
	if bbox := feature.BBox; len(bbox) == 4 {
		bounds = orb.Bound{Min: orb.Point{bbox[0], bbox[1]}, Max: orb.Point{bbox[2], bbox[3]}}
	}

	copyrights := dr.Metadata.Attribution
	if copyrights == "" {
		copyrights = orsAttribution
	}

	return &domain.Route{
		Legs:         legs,
		OverviewPath: path,
		Bounds:       bounds,
		Copyrights:   copyrights,
		Warnings:     warnings,
	}, nil
}
