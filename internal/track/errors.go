package track

import "fmt"

// DegenerateElementSetError reports an element set whose parameters cannot
// describe a bound orbit, or whose propagation failed inside the model.
// Fuse recovers from it per object; Propagate and SampleTrack surface it
// directly.
type DegenerateElementSetError struct {
	NoradID int
	Reason  string
}

func (e *DegenerateElementSetError) Error() string {
	return fmt.Sprintf("degenerate element set for NORAD %d: %s", e.NoradID, e.Reason)
}

// InvalidSamplingWindowError reports a trajectory request with a
// non-positive step or a negative horizon.
type InvalidSamplingWindowError struct {
	HorizonMinutes float64
	StepMinutes    float64
}

func (e *InvalidSamplingWindowError) Error() string {
	return fmt.Sprintf("invalid sampling window: horizon %v min, step %v min", e.HorizonMinutes, e.StepMinutes)
}
