package payments

import "math"

// Monetary amounts cross the gateway boundary in integer minor units (piasters
// for EGP). The rest of the application works in major units; conversion
// happens here and nowhere else.

func toMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

func toMajorUnits(cents int64) float64 {
	return float64(cents) / 100
}
