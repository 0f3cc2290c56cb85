package maps

import (
	"math"
	"strconv"
)

const metersPerFoot = 0.3048

// shortDistance renders a step distance the way imperial directions do:
// feet (to 10 ft) under a tenth of a mile, otherwise miles to one decimal.
func shortDistance(meters int) string {
	miles := float64(meters) / 1609.344
	if miles < 0.1 {
		feet := math.Round(float64(meters)/metersPerFoot/10) * 10
		return strconv.FormatFloat(feet, 'f', 0, 64) + " ft"
	}
	return strconv.FormatFloat(miles, 'f', 1, 64) + " mi"
}
