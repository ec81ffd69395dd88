package elements

import (
	"sort"
	"sync/atomic"
	"time"
)

// snapshot is one immutable generation of the store. Replace swaps the
// whole generation so readers mid-cycle keep a consistent view.
type snapshot struct {
	sets     []*Set
	byID     map[int]*Set
	loadedAt time.Time
	source   string
}

// Store holds the current element sets behind an atomic pointer. Reads
// never block writers and a refresh is visible to readers all at once.
type Store struct {
	cur atomic.Pointer[snapshot]
}

// NewStore returns an empty store.
func NewStore() *Store {
	st := &Store{}
	st.cur.Store(&snapshot{byID: map[int]*Set{}})
	return st
}

// Replace installs a new generation of element sets. The slice is sorted
// by NORAD ID and deduplicated (last entry wins) before it becomes
// visible. source names where the data came from ("network", "cache",
// "builtin").
func (st *Store) Replace(sets []*Set, source string) {
	byID := make(map[int]*Set, len(sets))
	for _, s := range sets {
		byID[s.NoradID] = s
	}
	ordered := make([]*Set, 0, len(byID))
	for _, s := range byID {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].NoradID < ordered[j].NoradID })

	st.cur.Store(&snapshot{
		sets:     ordered,
		byID:     byID,
		loadedAt: time.Now().UTC(),
		source:   source,
	})
}

// Snapshot returns the current generation's sets, sorted by NORAD ID.
// Callers must not mutate the returned slice.
func (st *Store) Snapshot() []*Set {
	return st.cur.Load().sets
}

// Get returns the set for a NORAD ID, or nil when absent.
func (st *Store) Get(noradID int) *Set {
	return st.cur.Load().byID[noradID]
}

// Len reports how many sets the current generation holds.
func (st *Store) Len() int {
	return len(st.cur.Load().sets)
}

// LoadedAt reports when the current generation was installed and from
// which source. The zero time means nothing has been loaded yet.
func (st *Store) LoadedAt() (time.Time, string) {
	s := st.cur.Load()
	return s.loadedAt, s.source
}

// EpochRange reports the oldest and newest element epochs in the current
// generation. ok is false when the store is empty.
func (st *Store) EpochRange() (oldest, newest time.Time, ok bool) {
	sets := st.cur.Load().sets
	if len(sets) == 0 {
		return time.Time{}, time.Time{}, false
	}
	oldest, newest = sets[0].Epoch, sets[0].Epoch
	for _, s := range sets[1:] {
		if s.Epoch.Before(oldest) {
			oldest = s.Epoch
		}
		if s.Epoch.After(newest) {
			newest = s.Epoch
		}
	}
	return oldest, newest, true
}
