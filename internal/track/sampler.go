package track

import (
	"context"
	"math"
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/elements"
)

// TrackPoint is one sample of a ground track.
type TrackPoint struct {
	LatDeg float64 `json:"lat"`
	LonDeg float64 `json:"lon"`
}

// SampleTrack computes an object's sub-satellite ground track: exactly
// floor(horizon/step) samples at start + k*step for k = 0, 1, .... A zero
// horizon yields an empty track. The context is checked between samples;
// on cancellation the partial slice is discarded and ctx.Err() returned.
func SampleTrack(ctx context.Context, set *elements.Set, start time.Time, horizonMinutes, stepMinutes float64) ([]TrackPoint, error) {
	if stepMinutes <= 0 || horizonMinutes < 0 {
		return nil, &InvalidSamplingWindowError{
			HorizonMinutes: horizonMinutes,
			StepMinutes:    stepMinutes,
		}
	}

	n := int(math.Floor(horizonMinutes / stepMinutes))
	points := make([]TrackPoint, 0, n)
	for k := 0; k < n; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		at := start.Add(time.Duration(float64(k) * stepMinutes * float64(time.Minute)))
		pos, err := Propagate(set, at)
		if err != nil {
			return nil, err
		}
		points = append(points, TrackPoint{LatDeg: pos.LatDeg, LonDeg: pos.LonDeg})
	}
	return points, nil
}
