// Package track is the propagation and fusion core: SGP4 position
// computation, catalog fusion, ground-track sampling, and mission
// classification. It performs no I/O; callers hand it immutable
// snapshots and collect the results.
package track

import (
	"fmt"
	"math"
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/elements"
)

// GeodeticPosition is a propagated position on the WGS-72 ellipsoid.
// Latitude and longitude are degrees, longitude normalized to
// [-180, 180]. Altitude is kilometers above the ellipsoid.
type GeodeticPosition struct {
	LatDeg float64   `json:"lat"`
	LonDeg float64   `json:"lon"`
	AltKm  float64   `json:"alt_km"`
	At     time.Time `json:"at"`
}

// Propagate computes the geodetic position of an element set at the given
// time. The target time may be before, at, or after the set's epoch;
// accuracy decays far from epoch but that is not an error. Element
// physicality is checked before any computation, so a degenerate set
// always fails with *DegenerateElementSetError and never with NaN output.
func Propagate(set *elements.Set, at time.Time) (GeodeticPosition, error) {
	if err := validateSet(set); err != nil {
		return GeodeticPosition{}, err
	}

	eci, err := set.TLE().FindPositionAtTime(at.UTC())
	if err != nil {
		// Model-internal failures (decay, perturbed eccentricity leaving
		// [0,1)) are the same recoverable condition from the caller's view.
		return GeodeticPosition{}, &DegenerateElementSetError{
			NoradID: set.NoradID,
			Reason:  err.Error(),
		}
	}

	lat, lon, alt := eci.ToGeodetic()
	return GeodeticPosition{
		LatDeg: lat,
		LonDeg: lon,
		AltKm:  alt,
		At:     at.UTC(),
	}, nil
}

func validateSet(set *elements.Set) error {
	ecc := set.Eccentricity()
	mm := set.MeanMotion()
	inc := set.InclinationDeg()

	switch {
	case math.IsNaN(ecc) || math.IsNaN(mm) || math.IsNaN(inc) ||
		math.IsInf(ecc, 0) || math.IsInf(mm, 0) || math.IsInf(inc, 0):
		return &DegenerateElementSetError{NoradID: set.NoradID, Reason: "non-finite orbital elements"}
	case ecc < 0 || ecc >= 1:
		return &DegenerateElementSetError{
			NoradID: set.NoradID,
			Reason:  fmt.Sprintf("eccentricity %g outside [0, 1)", ecc),
		}
	case mm <= 0:
		return &DegenerateElementSetError{
			NoradID: set.NoradID,
			Reason:  fmt.Sprintf("mean motion %g rev/day is not positive", mm),
		}
	}
	return nil
}
