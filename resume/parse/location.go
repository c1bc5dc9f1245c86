package parse

import (
	"regexp"
	"strings"

	"careermatch-backend/resume/model"
)

// usCAAbbr covers US state and Canadian province postal abbreviations for the
// City, ST location form.
var usCAAbbr = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DC": true, "DE": true, "FL": true, "GA": true, "HI": true,
	"IA": true, "ID": true, "IL": true, "IN": true, "KS": true, "KY": true,
	"LA": true, "MA": true, "MD": true, "ME": true, "MI": true, "MN": true,
	"MO": true, "MS": true, "MT": true, "NC": true, "ND": true, "NE": true,
	"NH": true, "NJ": true, "NM": true, "NV": true, "NY": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "UT": true, "VA": true, "VT": true, "WA": true,
	"WI": true, "WV": true,
	"AB": true, "BC": true, "MB": true, "NB": true, "NL": true, "NS": true,
	"NT": true, "NU": true, "ON": true, "PE": true, "QC": true, "SK": true,
	"YT": true,
}

var (
	cityStateRE       = regexp.MustCompile(`\b([A-Za-z][A-Za-z .'\-]+),\s*([A-Z]{2})(?:,\s*(?:USA|United States|Canada))?\b`)
	cityProvCountryRE = regexp.MustCompile(`\b([A-Za-z][A-Za-z .'\-]+),\s*([A-Za-z][A-Za-z .'\-]+)(?:,\s*(Canada|USA|United States))?\b`)
)

// findLocationCandidates extracts City, ST and City, Region[, Country] forms
// from the text, deduplicated case-insensitively preserving order.
func findLocationCandidates(text string) []string {
	var cands []string
	for _, m := range cityStateRE.FindAllStringSubmatch(text, -1) {
		city, abbr := strings.TrimSpace(m[1]), strings.ToUpper(strings.TrimSpace(m[2]))
		if usCAAbbr[abbr] {
			cands = append(cands, city+", "+abbr)
		}
	}
	for _, m := range cityProvCountryRE.FindAllStringSubmatch(text, -1) {
		city := strings.TrimSpace(m[1])
		region := strings.TrimSpace(m[2])
		country := strings.TrimSpace(m[3])
		if len(strings.Fields(region)) <= 4 && len(city) <= 64 {
			loc := city + ", " + region
			if country != "" && !strings.Contains(loc, country) {
				loc += ", " + country
			}
			cands = append(cands, loc)
		}
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range cands {
		key := strings.ToLower(c)
		if !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// majorityVoteLocation picks the most frequently seen location across the
// header, experience and education entries, and the first thirty lines of the
// document. Ties break toward the earliest vote.
func majorityVoteLocation(header []string, allText string, exp []model.ExperienceEntry, edu []model.EducationEntry) string {
	var votes []string
	votes = append(votes, findLocationCandidates(strings.Join(header, " "))...)
	for _, e := range exp {
		if e.Location != "" {
			votes = append(votes, e.Location)
		}
	}
	for _, e := range edu {
		if e.Location != "" {
			votes = append(votes, e.Location)
		}
	}
	lines := strings.Split(allText, "\n")
	if len(lines) > 30 {
		lines = lines[:30]
	}
	votes = append(votes, findLocationCandidates(strings.Join(lines, "\n"))...)

	counts := make(map[string]int)
	firstIdx := make(map[string]int)
	for i, v := range votes {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := firstIdx[v]; !ok {
			firstIdx[v] = i
		}
		counts[v]++
	}
	best := ""
	for v := range counts {
		if best == "" || counts[v] > counts[best] ||
			(counts[v] == counts[best] && firstIdx[v] < firstIdx[best]) {
			best = v
		}
	}
	return best
}
