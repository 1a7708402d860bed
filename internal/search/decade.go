package search

import (
	"regexp"
	"strconv"
)

// YearRange is an inclusive release-year window derived from a decade token.
type YearRange struct {
	From int
	To   int
}

var (
	fourDigitDecade = regexp.MustCompile(`\b(\d{4})s\b`)
	twoDigitDecade  = regexp.MustCompile(`\b(\d{2})s\b`)
)

// twoDigitCenturyCutoff decides which century a two-digit decade belongs to:
// values below it read as 20xx, the rest as 19xx. "90s" means the 1990s in
// conversation while "05s" means 2005 onward. The rule is a heuristic and
// cannot express decades it maps to the wrong century ("30s" always becomes
// 2030, so the 1930s are unreachable); it is kept as-is for compatibility.
const twoDigitCenturyCutoff = 30

// ParseDecade extracts a ten-year range from free text. "1990s" yields
// [1990,1999], "90s" yields [1990,1999], "05s" yields [2005,2014]. Text with
// no decade token yields nil, which means no year constraint.
func ParseDecade(text string) *YearRange {
	if m := fourDigitDecade.FindStringSubmatch(text); m != nil {
		base, err := strconv.Atoi(m[1])
		if err == nil {
			return &YearRange{From: base, To: base + 9}
		}
	}
	if m := twoDigitDecade.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			base := 1900 + n
			if n < twoDigitCenturyCutoff {
				base = 2000 + n
			}
			return &YearRange{From: base, To: base + 9}
		}
	}
	return nil
}
