// Package elements manages orbital element sets: parsing bulk TLE text,
// fetching it from the network with a tiered cache fallback, and holding
// the current snapshot behind an atomic pointer so a tracking cycle never
// observes a half-applied refresh.
package elements

import (
	"math"
	"time"

	"github.com/akhenakh/sgp4"
)

// Set is one object's orbital element set at a reference epoch. It is
// immutable once built; a refresh replaces sets wholesale, never mutates
// them in place.
type Set struct {
	NoradID int
	Name    string
	Epoch   time.Time

	tle *sgp4.TLE

	// Raw lines as received, kept so the disk cache can round-trip
	// network data byte for byte. Empty for constructed sets.
	line1, line2 string
}

// Elements are the classical mean elements needed to build a Set directly,
// without round-tripping through TLE text. Used by demo data and tests.
type Elements struct {
	MeanMotionRevPerDay float64
	Eccentricity        float64
	InclinationDeg      float64
	RAANDeg             float64
	ArgPerigeeDeg       float64
	MeanAnomalyDeg      float64
	Bstar               float64
}

// FromTLE wraps a parsed TLE as a Set.
func FromTLE(t *sgp4.TLE) *Set {
	return &Set{
		NoradID: t.SatelliteNumber,
		Name:    t.Name,
		Epoch:   t.EpochTime(),
		tle:     t,
	}
}

// New builds a Set from raw elements at the given epoch.
func New(noradID int, name string, epoch time.Time, el Elements) *Set {
	epoch = epoch.UTC()
	yearStart := time.Date(epoch.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	dayFloat := epoch.Sub(yearStart).Hours()/24.0 + 1.0

	t := &sgp4.TLE{
		Name:            name,
		SatelliteNumber: noradID,
		EpochYear:       epoch.Year(),
		EpochDay:        dayFloat,
		Bstar:           el.Bstar,
		Inclination:     el.InclinationDeg,
		RightAscension:  el.RAANDeg,
		Eccentricity:    el.Eccentricity,
		ArgOfPerigee:    el.ArgPerigeeDeg,
		MeanAnomaly:     el.MeanAnomalyDeg,
		MeanMotion:      el.MeanMotionRevPerDay,
	}

	// Epoch is derived from the TLE fields rather than stored verbatim, so
	// propagation and the reported epoch can never disagree.
	return &Set{
		NoradID: noradID,
		Name:    name,
		Epoch:   t.EpochTime(),
		tle:     t,
	}
}

// TLE exposes the underlying element set for propagation.
func (s *Set) TLE() *sgp4.TLE { return s.tle }

// MeanMotion returns revolutions per day.
func (s *Set) MeanMotion() float64 { return s.tle.MeanMotion }

// Eccentricity returns the orbital eccentricity.
func (s *Set) Eccentricity() float64 { return s.tle.Eccentricity }

// InclinationDeg returns the orbital inclination in degrees.
func (s *Set) InclinationDeg() float64 { return s.tle.Inclination }

// PeriodMinutes returns the orbital period implied by the mean motion, or
// NaN when the mean motion is non-positive.
func (s *Set) PeriodMinutes() float64 {
	if s.tle.MeanMotion <= 0 {
		return math.NaN()
	}
	return 24 * 60 / s.tle.MeanMotion
}
