// Package catalog loads the static satellite catalog from a SATCAT-style
// CSV file and serves it as an immutable in-memory store. Rows are cleaned
// on ingest: entries without a numeric NORAD ID are dropped, the radar
// cross-section size proxy is clamped to a bounded display range, and the
// optional orbital descriptors stay absent rather than defaulting to zero.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// RCS clamp bounds for the size proxy. Values outside this range are
// display noise, not physics.
const (
	MinRCS     = 0.5
	MaxRCS     = 5.0
	DefaultRCS = 1.0
)

// Record is one catalog entry. InclinationDeg and PeriodMinutes are nil
// when the source row had no parseable value; absence of data is a distinct
// state from a zero value and downstream consumers must treat it as such.
type Record struct {
	NoradID        int      `json:"norad_id"`
	Name           string   `json:"name"`
	RCS            float64  `json:"rcs"`
	InclinationDeg *float64 `json:"inclination_deg,omitempty"`
	PeriodMinutes  *float64 `json:"period_minutes,omitempty"`
}

// Store is a read-only catalog keyed by NORAD ID. It is safe for
// concurrent use after construction; nothing mutates it post-load.
type Store struct {
	records map[int]*Record
}

// NewStore builds a store from already-cleaned records. Duplicate IDs keep
// the last record seen, matching CSV ingest behavior.
func NewStore(records []*Record) *Store {
	m := make(map[int]*Record, len(records))
	for _, r := range records {
		m[r.NoradID] = r
	}
	return &Store{records: m}
}

// Load reads and cleans a catalog CSV file.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return s, nil
}

// Parse reads a catalog CSV from r. The first row is the header; column
// names are matched case-insensitively after trimming. A NORAD ID column
// is required, everything else is optional.
func Parse(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := columnIndex(head)
	idCol, ok := cols["NORAD_CAT_ID"]
	if !ok {
		return nil, fmt.Errorf("catalog is missing a NORAD_CAT_ID column")
	}

	var records []*Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		id, ok := parseNoradID(field(row, idCol))
		if !ok {
			continue // non-numeric IDs are dropped, not an error
		}

		rec := &Record{
			NoradID: id,
			Name:    recordName(row, cols),
			RCS:     clampRCS(fieldOpt(row, cols, "RCS")),
		}
		rec.InclinationDeg = optionalFloat(fieldOpt(row, cols, "INCLINATION"))
		rec.PeriodMinutes = optionalFloat(fieldOpt(row, cols, "PERIOD"))

		records = append(records, rec)
	}

	return NewStore(records), nil
}

// Get returns the record for a NORAD ID.
func (s *Store) Get(id int) (*Record, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Len reports the number of catalog entries.
func (s *Store) Len() int { return len(s.records) }

// IDs returns all catalog NORAD IDs sorted ascending.
func (s *Store) IDs() []int {
	ids := make([]int, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// All returns every record sorted by NORAD ID.
func (s *Store) All() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, id := range s.IDs() {
		out = append(out, s.records[id])
	}
	return out
}

// columnIndex maps normalized header names to their positions.
func columnIndex(head []string) map[string]int {
	cols := make(map[string]int, len(head))
	for i, h := range head {
		cols[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func fieldOpt(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return field(row, i)
}

// recordName picks the first populated name column; SATCAT exports are not
// consistent about which one they use.
func recordName(row []string, cols map[string]int) string {
	for _, col := range []string{"OBJECT_NAME", "SATNAME", "NAME"} {
		if v := fieldOpt(row, cols, col); v != "" {
			return v
		}
	}
	return ""
}

func parseNoradID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	// SATCAT exports sometimes carry IDs as floats ("25544.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// clampRCS coerces the size proxy into [MinRCS, MaxRCS], substituting
// DefaultRCS for unparseable values.
func clampRCS(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultRCS
	}
	if v < MinRCS {
		return MinRCS
	}
	if v > MaxRCS {
		return MaxRCS
	}
	return v
}

func optionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
