package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date span forms supported across experience and education blocks:
// "Jan 2021 - Mar 2024", "03/2020 - 06/2021", "2019 - Present". The separator
// may be a hyphen, en/em dash, or the word "to"; normalization already rewrote
// dash glyphs to "- ".
const (
	monthToken    = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}`
	presentToken  = `(?i:present|now|current)`
	dateStartPart = `(?:` + monthToken + `|\d{1,2}/\d{4}|\d{4})`
	dateEndPart   = `(?:` + presentToken + `|` + monthToken + `|\d{1,2}/\d{4}|\d{4})`
)

var (
	dateSpanRE = regexp.MustCompile(`(` + dateStartPart + `)\s*(?:-|–|—|to)\s*(` + dateEndPart + `)`)
	presentRE  = regexp.MustCompile(`(?i)\b(present|current|now)\b`)
	yearOnlyRE = regexp.MustCompile(`^\d{4}$`)
	monthNumRE = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
	monthTxtRE = regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+(\d{4})`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// findDateSpan returns the start and end tokens of the first date span in
// text, or empty strings when none matches.
func findDateSpan(text string) (start, end string) {
	m := dateSpanRE.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// parseMonthYear parses "YYYY", "MM/YYYY" or "Mon YYYY" into the first day of
// that month. The zero time means the token was not parseable.
func parseMonthYear(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if yearOnlyRE.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if m := monthNumRE.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		if month < 1 {
			month = 1
		}
		if month > 12 {
			month = 12
		}
		year, _ := strconv.Atoi(m[2])
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}
	if m := monthTxtRE.FindStringSubmatch(s); m != nil {
		if month, ok := monthsByName[strings.ToLower(m[1])]; ok {
			year, _ := strconv.Atoi(m[2])
			return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

// monthsBetween counts whole months from start to end, clamped at zero. A
// zero end means "still ongoing" and is measured against now.
func monthsBetween(start, end, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	if end.IsZero() {
		end = now
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// TotalExperienceMonths sums employment duration across entries. Unparsable
// spans contribute zero months; a present-tense end date counts up to now.
func TotalExperienceMonths(entries []EntrySpan, now time.Time) int {
	total := 0
	for _, e := range entries {
		start := parseMonthYear(e.Start)
		var end time.Time
		if !presentRE.MatchString(e.End) {
			// An unparsable end stays zero and is treated as ongoing, matching
			// the present-tense sentinel.
			end = parseMonthYear(e.End)
		}
		total += monthsBetween(start, end, now)
	}
	return total
}

// EntrySpan is a start/end date pair as extracted, prior to parsing.
type EntrySpan struct {
	Start string
	End   string
}

// TotalExperienceYears converts summed months into years rounded to one
// decimal place.
func TotalExperienceYears(entries []EntrySpan, now time.Time) float64 {
	months := TotalExperienceMonths(entries, now)
	return math.Round(float64(months)/12.0*10) / 10
}
