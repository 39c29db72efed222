package refine

import (
	"regexp"
	"strings"
)

// Fact extraction patterns: number+unit phrases, proper-noun phrases, and
// colon-delimited phrases.
var (
	numberFact = regexp.MustCompile(`\d+\s+\w+`)
	properNoun = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	colonFact  = regexp.MustCompile(`[^.!?]*:[^.!?]*`)
)

const (
	factListCap           = 10
	factPreserveThreshold = 0.8
)

// PreservesFacts reports whether at least 80% of the facts extracted from
// the original text reappear as substrings of facts in the refined text.
// It is an advisory validation: the refinement pipeline does not call it
// and it never gates subsection acceptance.
func PreservesFacts(original, refined string) bool {
	originalFacts := extractFacts(original)
	if len(originalFacts) == 0 {
		return true
	}
	refinedFacts := extractFacts(refined)

	preserved := 0
	for _, fact := range originalFacts {
		lower := strings.ToLower(fact)
		for _, rf := range refinedFacts {
			if strings.Contains(strings.ToLower(rf), lower) {
				preserved++
				break
			}
		}
	}

	return float64(preserved)/float64(len(originalFacts)) >= factPreserveThreshold
}

func extractFacts(text string) []string {
	var facts []string
	facts = appendCapped(facts, numberFact.FindAllString(text, -1))
	facts = appendCapped(facts, properNoun.FindAllString(text, -1))
	facts = appendCapped(facts, colonFact.FindAllString(text, -1))
	return facts
}

// appendCapped adds at most factListCap items from one pattern's matches.
func appendCapped(facts, matches []string) []string {
	if len(matches) > factListCap {
		matches = matches[:factListCap]
	}
	return append(facts, matches...)
}
