package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `NORAD_CAT_ID,OBJECT_NAME,RCS,INCLINATION,PERIOD
25544,ISS (ZARYA),401.0,51.64,92.9
43744,CARTOSAT-2F,2.2,97.46,94.3
43774,HYSIS,0.1,97.75,96.4
not-a-number,GHOST,1.0,0,0
41866,GOES-16,,0.03,1436.1
`

func mustParse(t *testing.T, csv string) *Store {
	t.Helper()
	s, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func TestParseDropsNonNumericIDs(t *testing.T) {
	s := mustParse(t, sampleCSV)
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (row with non-numeric ID must be dropped)", s.Len())
	}
	if _, ok := s.Get(25544); !ok {
		t.Errorf("expected ISS row to survive ingest")
	}
}

func TestParseClampsRCS(t *testing.T) {
	s := mustParse(t, sampleCSV)

	tests := []struct {
		id   int
		want float64
	}{
		{25544, MaxRCS},     // 401.0 clamps to the upper bound
		{43744, 2.2},        // in range, untouched
		{43774, MinRCS},     // 0.1 clamps to the lower bound
		{41866, DefaultRCS}, // empty field falls back to the default
	}
	for _, tt := range tests {
		rec, ok := s.Get(tt.id)
		if !ok {
			t.Fatalf("Get(%d) missing", tt.id)
		}
		if rec.RCS != tt.want {
			t.Errorf("RCS for %d = %v, want %v", tt.id, rec.RCS, tt.want)
		}
	}
}

func TestParseOptionalDescriptors(t *testing.T) {
	csv := `NORAD_CAT_ID,OBJECT_NAME,RCS,INCLINATION,PERIOD
100,ALPHA,1.0,98.2,
200,BRAVO,1.0,,100.5
300,CHARLIE,1.0,junk,also-junk
`
	s := mustParse(t, csv)

	a, _ := s.Get(100)
	if a.InclinationDeg == nil || *a.InclinationDeg != 98.2 {
		t.Errorf("ALPHA inclination = %v, want 98.2", a.InclinationDeg)
	}
	if a.PeriodMinutes != nil {
		t.Errorf("ALPHA period should be absent, got %v", *a.PeriodMinutes)
	}

	b, _ := s.Get(200)
	if b.InclinationDeg != nil {
		t.Errorf("BRAVO inclination should be absent")
	}
	if b.PeriodMinutes == nil || *b.PeriodMinutes != 100.5 {
		t.Errorf("BRAVO period = %v, want 100.5", b.PeriodMinutes)
	}

	c, _ := s.Get(300)
	if c.InclinationDeg != nil || c.PeriodMinutes != nil {
		t.Errorf("CHARLIE descriptors should both be absent on unparseable input")
	}
}

func TestParseMissingIDColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("NAME,RCS\nISS,1.0\n"))
	if err == nil {
		t.Fatal("expected error for catalog without NORAD_CAT_ID column")
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	s := mustParse(t, "norad_cat_id, object_name ,rcs\n42,TEST,1.5\n")
	rec, ok := s.Get(42)
	if !ok {
		t.Fatal("Get(42) missing")
	}
	if rec.Name != "TEST" || rec.RCS != 1.5 {
		t.Errorf("record = %+v, want name TEST rcs 1.5", rec)
	}
}

func TestParseFloatNoradID(t *testing.T) {
	s := mustParse(t, "NORAD_CAT_ID,OBJECT_NAME\n25544.0,ISS\n")
	if _, ok := s.Get(25544); !ok {
		t.Error("float-formatted NORAD ID should coerce to 25544")
	}
}

func TestParseDuplicateIDLastWins(t *testing.T) {
	s := mustParse(t, "NORAD_CAT_ID,OBJECT_NAME\n7,FIRST\n7,SECOND\n")
	rec, _ := s.Get(7)
	if rec == nil || rec.Name != "SECOND" {
		t.Errorf("duplicate ID should keep last row, got %+v", rec)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestIDsSorted(t *testing.T) {
	s := mustParse(t, "NORAD_CAT_ID\n300\n100\n200\n")
	ids := s.IDs()
	want := []int{100, 200, 300}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}
}
