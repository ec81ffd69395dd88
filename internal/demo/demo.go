// Package demo supplies a builtin fleet so the daemon can run its full
// tracking loop with no network access and no local catalog file. The
// objects are real: the ISS, two sun-synchronous smallsats, and a
// geostationary weather bird, so the fused table shows every mission
// class out of the box.
package demo

import (
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/catalog"
	"github.com/skywatch-labs/orbit-tracker/internal/elements"
)

func fptr(v float64) *float64 { return &v }

// Catalog returns the builtin catalog. NORAD 20580 has no matching
// element set on purpose, so the joined-identifier view always shows a
// catalog-only object.
func Catalog() *catalog.Store {
	return catalog.NewStore([]*catalog.Record{
		{NoradID: 25544, Name: "ISS (ZARYA)", RCS: catalog.MaxRCS, InclinationDeg: fptr(51.64), PeriodMinutes: fptr(92.9)},
		{NoradID: 43744, Name: "FLOCK 3P-3", RCS: catalog.MinRCS, InclinationDeg: fptr(97.46), PeriodMinutes: fptr(94.3)},
		{NoradID: 43774, Name: "ITASAT 1", RCS: 0.7, InclinationDeg: fptr(97.75), PeriodMinutes: fptr(96.3)},
		{NoradID: 41866, Name: "GOES 16", RCS: catalog.MaxRCS, InclinationDeg: fptr(0.04), PeriodMinutes: fptr(1436.1)},
		{NoradID: 20580, Name: "HST", RCS: catalog.MaxRCS, InclinationDeg: fptr(28.47), PeriodMinutes: fptr(95.4)},
	})
}

// ElementSets builds element sets for the demo fleet with the epoch set
// to the current time. Real archived TLEs would be years stale by the
// time anyone runs demo mode and the propagator would rightly refuse
// some of them, so the demo re-anchors known orbits at now instead.
func ElementSets() []*elements.Set {
	epoch := time.Now().UTC()
	return []*elements.Set{
		elements.New(25544, "ISS (ZARYA)", epoch, elements.Elements{
			MeanMotionRevPerDay: 15.4959, Eccentricity: 0.0002558, InclinationDeg: 51.6369,
			RAANDeg: 94.7823, ArgPerigeeDeg: 120.7586, MeanAnomalyDeg: 15.7840, Bstar: 0.00014567,
		}),
		elements.New(43744, "FLOCK 3P-3", epoch, elements.Elements{
			MeanMotionRevPerDay: 15.2676, Eccentricity: 0.0018688, InclinationDeg: 97.4641,
			RAANDeg: 185.2907, ArgPerigeeDeg: 163.4737, MeanAnomalyDeg: 196.7173, Bstar: 0.000078676,
		}),
		elements.New(43774, "ITASAT 1", epoch, elements.Elements{
			MeanMotionRevPerDay: 14.9486, Eccentricity: 0.0013991, InclinationDeg: 97.7511,
			RAANDeg: 187.8310, ArgPerigeeDeg: 141.9695, MeanAnomalyDeg: 218.2515, Bstar: 0.000031551,
		}),
		elements.New(41866, "GOES 16", epoch, elements.Elements{
			MeanMotionRevPerDay: 1.00271, Eccentricity: 0.0001, InclinationDeg: 0.035,
			RAANDeg: 85.0, ArgPerigeeDeg: 310.0, MeanAnomalyDeg: 50.0,
		}),
	}
}
