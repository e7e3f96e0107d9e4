package service

import "strings"

// stationTable maps human station names to the codes the grid query
// accepts. Order matters for query matching, so this is a slice rather
// than a map. Unknown names fall back to a heuristic slug and the remote
// decides validity.
var stationTable = []struct {
	Name string
	Code string
}{
	{"France Inter", "franceinter"},
	{"France Culture", "franceculture"},
	{"France Musique", "francemusique"},
	{"franceinfo", "franceinfo"},
	{"France Bleu", "francebleu"},
	{"FIP", "fip"},
	{"Mouv", "mouv"},
}

type matchConfidence string

const (
	matchExact           matchConfidence = "exact"
	matchCaseInsensitive matchConfidence = "caseInsensitive"
	matchHeuristic       matchConfidence = "heuristic"
)

// stationMatch is a resolved station with the confidence of the match, so
// callers can tell a table hit from a guess.
type stationMatch struct {
	Name       string
	Code       string
	Confidence matchConfidence
}

// resolveStation maps a human station name to a code in three stages:
// exact table lookup, case-insensitive table lookup, then a slug derived
// from the name itself (lowercased, spaces removed) passed through as-is.
func resolveStation(name string) stationMatch {
	for _, s := range stationTable {
		if s.Name == name {
			return stationMatch{Name: s.Name, Code: s.Code, Confidence: matchExact}
		}
	}
	for _, s := range stationTable {
		if strings.EqualFold(s.Name, name) {
			return stationMatch{Name: s.Name, Code: s.Code, Confidence: matchCaseInsensitive}
		}
	}
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "")
	return stationMatch{Name: name, Code: slug, Confidence: matchHeuristic}
}

// findStationInQuery reports the first known station whose name appears as
// a case-insensitive substring of the query.
func findStationInQuery(query string) (string, bool) {
	lowered := strings.ToLower(query)
	for _, s := range stationTable {
		if strings.Contains(lowered, strings.ToLower(s.Name)) {
			return s.Name, true
		}
	}
	return "", false
}
