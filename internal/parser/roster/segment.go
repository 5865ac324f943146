package roster

import (
	"regexp"
	"strconv"

	"github.com/keibalab/keibanote/internal/parser/textscan"
)

// markerRe matches a post-position marker line: frame number and horse
// number as two small integers on their own line. A marker starts a new
// fragment; everything until the next marker belongs to it.
var markerRe = regexp.MustCompile(`^\s*(\d{1,2})\s+(\d{1,2})\s*$`)

// Fragment is the slice of a roster block belonging to one horse.
type Fragment struct {
	FrameNumber int
	HorseNumber int
	MarkerLine  int // 1-based line number of the marker line
	Lines       []string
}

// lineNumber returns the 1-based source line number of Lines[i].
func (f *Fragment) lineNumber(i int) int {
	return f.MarkerLine + 1 + i
}

// segment splits roster lines into fragments. Two states: outside a
// fragment (before the first marker) and inside one; the transition is
// marker-line detection, and EOF closes the last open fragment.
func segment(lines []string) []Fragment {
	var frags []Fragment
	var cur *Fragment

	c := textscan.NewCursor(lines)
	for {
		line, num, ok := c.Next()
		if !ok {
			break
		}
		if m := markerRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				frags = append(frags, *cur)
			}
			frame, _ := strconv.Atoi(m[1])
			horse, _ := strconv.Atoi(m[2])
			cur = &Fragment{FrameNumber: frame, HorseNumber: horse, MarkerLine: num}
			continue
		}
		if cur != nil {
			cur.Lines = append(cur.Lines, line)
		}
	}
	if cur != nil {
		frags = append(frags, *cur)
	}
	return frags
}
