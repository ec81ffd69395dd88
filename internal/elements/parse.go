package elements

import (
	"fmt"
	"log"
	"strings"

	"github.com/akhenakh/sgp4"
)

// ParseSets parses bulk TLE text in the common 3-line format (name line
// followed by the two element lines). The name line is optional; bare
// 2-line entries are accepted. Entries that fail to parse are skipped so
// one corrupt record cannot poison a whole catalog download.
func ParseSets(raw string, logger *log.Logger) []*Set {
	var sets []*Set
	var skipped int

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		l1 := strings.TrimRight(lines[i], " \t")
		if !strings.HasPrefix(l1, "1 ") || i+1 >= len(lines) {
			continue
		}
		l2 := strings.TrimRight(lines[i+1], " \t")
		if !strings.HasPrefix(l2, "2 ") {
			continue
		}

		name := ""
		if i > 0 {
			prev := strings.TrimSpace(lines[i-1])
			if prev != "" && !strings.HasPrefix(prev, "1 ") && !strings.HasPrefix(prev, "2 ") {
				name = strings.TrimPrefix(prev, "0 ")
			}
		}

		group := l1 + "\n" + l2
		if name != "" {
			group = name + "\n" + group
		}
		t, err := sgp4.ParseTLE(group)
		if err != nil {
			skipped++
			if logger != nil {
				logger.Printf("elements: skipping unparseable entry %q: %v", name, err)
			}
			i++
			continue
		}
		s := FromTLE(t)
		s.line1, s.line2 = l1, l2
		sets = append(sets, s)
		i++
	}

	if skipped > 0 && logger != nil {
		logger.Printf("elements: parsed %d sets, skipped %d bad entries", len(sets), skipped)
	}
	return sets
}

// FormatSets renders sets back to 3-line TLE text for the disk cache.
// Only sets parsed from real TLE text carry raw lines; constructed sets
// are omitted.
func FormatSets(sets []*Set) string {
	var b strings.Builder
	for _, s := range sets {
		if s.line1 == "" || s.line2 == "" {
			continue
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("OBJECT %d", s.NoradID)
		}
		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(s.line1)
		b.WriteString("\n")
		b.WriteString(s.line2)
		b.WriteString("\n")
	}
	return b.String()
}
