package track

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/skywatch-labs/orbit-tracker/internal/catalog"
	"github.com/skywatch-labs/orbit-tracker/internal/elements"
)

// LiveState is one fused record: an object present in both the element
// store and the catalog, with its position propagated to the cycle time.
type LiveState struct {
	NoradID  int              `json:"norad_id"`
	Name     string           `json:"name"`
	Position GeodeticPosition `json:"position"`
	Catalog  *catalog.Record  `json:"catalog"`
	Mission  MissionClass     `json:"mission"`
}

// FuseOptions tunes a fusion run. Workers > 1 propagates in parallel;
// Workers <= 1 runs sequentially. Logf, when set, receives per-object
// skip notices. OnDegenerate, when set, is called once per skipped set
// (used for metrics counters); it may be called from worker goroutines.
type FuseOptions struct {
	Workers      int
	Logf         func(format string, args ...any)
	OnDegenerate func(err *DegenerateElementSetError)
}

// Fuse joins the element snapshot against the catalog and propagates
// every matched object to asOf. Identifiers present in only one input
// produce no record. Degenerate sets are skipped, never fatal to the
// batch. Output is sorted by NORAD ID ascending and is identical whether
// propagation ran sequentially or in parallel.
func Fuse(ctx context.Context, sets []*elements.Set, cat *catalog.Store, asOf time.Time, opts FuseOptions) []LiveState {
	type job struct {
		set *elements.Set
		rec *catalog.Record
	}

	jobs := make([]job, 0, len(sets))
	for _, s := range sets {
		rec, ok := cat.Get(s.NoradID)
		if !ok {
			continue
		}
		jobs = append(jobs, job{set: s, rec: rec})
	}

	results := make([]*LiveState, len(jobs))
	run := func(i int) {
		j := jobs[i]
		pos, err := Propagate(j.set, asOf)
		if err != nil {
			if degen, ok := err.(*DegenerateElementSetError); ok && opts.OnDegenerate != nil {
				opts.OnDegenerate(degen)
			}
			if opts.Logf != nil {
				opts.Logf("track: skipping NORAD %d: %v", j.set.NoradID, err)
			}
			return
		}
		name := j.rec.Name
		if name == "" {
			name = j.set.Name
		}
		results[i] = &LiveState{
			NoradID:  j.set.NoradID,
			Name:     name,
			Position: pos,
			Catalog:  j.rec,
			Mission:  Classify(j.rec),
		}
	}

	if opts.Workers > 1 {
		var wg sync.WaitGroup
		idx := make(chan int)
		for w := 0; w < opts.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					run(i)
				}
			}()
		}
	feed:
		for i := range jobs {
			select {
			case <-ctx.Done():
				break feed
			case idx <- i:
			}
		}
		close(idx)
		wg.Wait()
	} else {
		for i := range jobs {
			if ctx.Err() != nil {
				break
			}
			run(i)
		}
	}

	fused := make([]LiveState, 0, len(results))
	for _, r := range results {
		if r != nil {
			fused = append(fused, *r)
		}
	}
	sort.Slice(fused, func(i, j int) bool { return fused[i].NoradID < fused[j].NoradID })
	return fused
}
