// Package odds extracts win/place odds from a pasted two-section odds
// table. Extraction is always best-effort: malformed marker/data pairs
// become warnings, never errors, and a block with no odds at all yields an
// empty (still successful) result — odds absence is only fatal downstream.
package odds

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/keibalab/keibanote/internal/parser/textscan"
	"github.com/keibalab/keibanote/internal/pkg/models"
)

// Approximation divisors for a horse missing its place section: place odds
// sit below win odds, so min ≈ win/3 and max ≈ win/2. A documented
// heuristic, not a statistical model.
const (
	placeMinDivisor = 3.0
	placeMaxDivisor = 2.0
)

type section int

const (
	sectionNone section = iota
	sectionWin
	sectionPlace
)

var (
	winHeaderRe   = regexp.MustCompile(`単勝`)
	placeHeaderRe = regexp.MustCompile(`複勝`)
	// labelRe matches table-header lines (column labels) to skip.
	labelRe = regexp.MustCompile(`馬番|オッズ|人気`)
	// markerRe is the per-horse marker: frame and horse number.
	markerRe = regexp.MustCompile(`^\s*(\d{1,2})[\t ]+(\d{1,2})\s*$`)
	// winOddsRe reads the single trailing number of a win data line.
	winOddsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*$`)
	// placeOddsRe reads the trailing "min - max" pair of a place data line.
	placeOddsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-－−ー〜~]\s*(\d+(?:\.\d+)?)\s*$`)
)

type placeRange struct {
	min, max float64
}

// Result of one odds extraction call, sorted ascending by horse number.
type Result struct {
	models.ExtractionResult
	Odds []models.OddsRecord `json:"odds"`
}

// Extract parses one odds block.
func Extract(text string, cfg models.ParserConfig) Result {
	var res Result

	winOdds := make(map[int]float64)
	placeOdds := make(map[int]placeRange)

	cur := sectionNone
	c := textscan.NewCursor(textscan.SplitLines(text))
	for {
		line, num, ok := c.Next()
		if !ok {
			break
		}
		switch {
		case winHeaderRe.MatchString(line):
			cur = sectionWin
			continue
		case placeHeaderRe.MatchString(line):
			cur = sectionPlace
			continue
		case labelRe.MatchString(line):
			continue
		}

		m := markerRe.FindStringSubmatch(line)
		if m == nil || cur == sectionNone {
			continue
		}
		horse, _ := strconv.Atoi(m[2])

		data, dataNum, ok := c.Peek()
		// A following marker, section header or label line means this
		// marker has no data line of its own.
		if !ok || markerRe.MatchString(data) ||
			winHeaderRe.MatchString(data) || placeHeaderRe.MatchString(data) || labelRe.MatchString(data) {
			res.Add(models.NewWarning(models.KindOddsData, fieldFor(cur),
				fmt.Sprintf("marker for horse %d has no data line", horse), line).AtLine(num))
			continue
		}
		c.Skip()

		switch cur {
		case sectionWin:
			wm := winOddsRe.FindStringSubmatch(data)
			if wm == nil {
				res.Add(models.NewWarning(models.KindOddsData, "winOdds",
					fmt.Sprintf("unparsable win odds for horse %d", horse), data).AtLine(dataNum))
				continue
			}
			winOdds[horse], _ = strconv.ParseFloat(wm[1], 64)
		case sectionPlace:
			pm := placeOddsRe.FindStringSubmatch(data)
			if pm == nil {
				res.Add(models.NewWarning(models.KindOddsData, "placeOdds",
					fmt.Sprintf("unparsable place odds (min - max) for horse %d", horse), data).AtLine(dataNum))
				continue
			}
			min, _ := strconv.ParseFloat(pm[1], 64)
			max, _ := strconv.ParseFloat(pm[2], 64)
			placeOdds[horse] = placeRange{min: min, max: max}
		}
	}

	res.Odds = merge(winOdds, placeOdds, cfg.DefaultOdds)
	return res
}

func fieldFor(s section) string {
	if s == sectionPlace {
		return "placeOdds"
	}
	return "winOdds"
}

// merge unions both sections and approximates the missing side for horses
// seen in only one of them.
func merge(winOdds map[int]float64, placeOdds map[int]placeRange, defaultOdds float64) []models.OddsRecord {
	numbers := make(map[int]bool, len(winOdds)+len(placeOdds))
	for n := range winOdds {
		numbers[n] = true
	}
	for n := range placeOdds {
		numbers[n] = true
	}
	if len(numbers) == 0 {
		return nil
	}

	out := make([]models.OddsRecord, 0, len(numbers))
	for n := range numbers {
		rec := models.OddsRecord{HorseNumber: n}
		win, hasWin := winOdds[n]
		place, hasPlace := placeOdds[n]
		switch {
		case hasWin && hasPlace:
			rec.WinOdds = win
			rec.PlaceOddsMin, rec.PlaceOddsMax = place.min, place.max
		case hasWin:
			rec.WinOdds = win
			rec.PlaceOddsMin = win / placeMinDivisor
			rec.PlaceOddsMax = win / placeMaxDivisor
			rec.Approximated = true
		default:
			rec.WinOdds = defaultOdds
			rec.PlaceOddsMin, rec.PlaceOddsMax = place.min, place.max
			rec.Approximated = true
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HorseNumber < out[j].HorseNumber })
	return out
}
