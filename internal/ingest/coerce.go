package ingest

import (
	"strconv"
	"strings"
	"time"
)

// Number coerces a spreadsheet cell to a float64. Currency symbols,
// thousands separators, percent signs and surrounding whitespace are
// tolerated; anything unparseable is 0, never an error. Upstream sheets
// are too inconsistent to reject row-by-row.
func Number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	s = strings.TrimSuffix(s, "-") // trailing-minus accounting style
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Date parses the handful of date formats seen in upload sheets. The zero
// time and false signal an unparseable value.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/2006", "2006/01/02", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
