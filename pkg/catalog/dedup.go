package catalog

import (
	"strings"

	"github.com/m-hamwi/yalla/pkg/model"
)

// similarityThreshold is the token-overlap score above which two same-day
// titles are treated as the same event. Heuristic, uncalibrated; replace
// Similarity wholesale rather than tuning the constant.
const similarityThreshold = 0.8

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "at": {}, "on": {}, "for": {},
}

// NormalizeTitle lowercases, strips punctuation, collapses whitespace and
// drops stop words, producing the comparison key for deduplication.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	var kept []string
	for _, w := range strings.Fields(b.String()) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Similarity scores two normalized titles in [0, 1]. Identical titles and
// substring containment score 1. Otherwise the score is the summed character
// length of words (longer than 2 chars) shared by both titles, divided by
// the longer title's total character length.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return 1
	}

	longerWords := make(map[string]struct{})
	for _, w := range strings.Fields(longer) {
		longerWords[w] = struct{}{}
	}

	shared := 0
	counted := make(map[string]struct{})
	for _, w := range strings.Fields(shorter) {
		if len(w) <= 2 {
			continue
		}
		if _, dup := counted[w]; dup {
			continue
		}
		if _, ok := longerWords[w]; ok {
			shared += len(w)
			counted[w] = struct{}{}
		}
	}

	return float64(shared) / float64(len(longer))
}

// Dedupe collapses near-identical events from different sources, keeping the
// first occurrence and preserving input order. It works on any event list,
// full catalog or date-filtered subset, and is idempotent. Duplicates are
// dropped outright; no field merging.
func Dedupe(events []model.Event) []model.Event {
	type rep struct {
		title string
	}

	seenExact := make(map[string]struct{})
	byDay := make(map[string][]rep)

	kept := make([]model.Event, 0, len(events))
	for _, ev := range events {
		title := NormalizeTitle(ev.Title)
		day := ev.Day()

		exactKey := title + "|" + day
		if _, dup := seenExact[exactKey]; dup {
			continue
		}

		isDup := false
		for _, r := range byDay[day] {
			if Similarity(title, r.title) > similarityThreshold {
				isDup = true
				break
			}
		}
		if isDup {
			continue
		}

		seenExact[exactKey] = struct{}{}
		byDay[day] = append(byDay[day], rep{title: title})
		kept = append(kept, ev)
	}
	return kept
}
