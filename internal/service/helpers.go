package service

import "math"

// RoundingPrecision is the factor used to round monetary values to cents.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places. Used throughout the
// service layer so monetary values leave the API at cent precision.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}
