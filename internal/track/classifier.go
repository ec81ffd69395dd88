package track

import "github.com/skywatch-labs/orbit-tracker/internal/catalog"

// MissionClass is the coarse orbit regime assigned to a catalog object.
type MissionClass int

const (
	MissionUnknown MissionClass = iota
	MissionSunSynchronous
	MissionGeostationary
	MissionLowEarthOrbit
)

func (m MissionClass) String() string {
	switch m {
	case MissionSunSynchronous:
		return "Sun-Synchronous"
	case MissionGeostationary:
		return "Geostationary"
	case MissionLowEarthOrbit:
		return "LEO"
	default:
		return "Unknown"
	}
}

// MarshalText renders the class name, so JSON output carries the label
// rather than the enum value.
func (m MissionClass) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Classify assigns a mission class from the catalog's orbital descriptors.
// Both descriptors must be present; a missing inclination or period yields
// Unknown rather than a guessed regime. Retrograde inclination (> 90°)
// reads as sun-synchronous, a period beyond 1400 minutes as geostationary,
// anything else as LEO.
func Classify(rec *catalog.Record) MissionClass {
	if rec == nil || rec.InclinationDeg == nil || rec.PeriodMinutes == nil {
		return MissionUnknown
	}
	switch {
	case *rec.InclinationDeg > 90:
		return MissionSunSynchronous
	case *rec.PeriodMinutes > 1400:
		return MissionGeostationary
	default:
		return MissionLowEarthOrbit
	}
}
