// Package rank orders sections by importance and applies a
// diversity-preserving re-selection so the final list is not dominated by
// one content type.
package rank

import (
	"regexp"
	"sort"
	"strings"

	"github.com/docsieve/docsieve/internal/config"
	"github.com/docsieve/docsieve/internal/model"
	"github.com/docsieve/docsieve/internal/relevance"
)

// Completeness indicator constants.
var (
	structureMarkers = []string{"•", "-", "1.", "2.", ":"}
	digitPattern     = regexp.MustCompile(`\d+`)
)

// Per-class cap during diversity re-selection.
const perClassLimit = 3

// Ranker scores and orders sections.
type Ranker struct {
	scorer  relevance.Scorer
	weights config.ScoreWeights
	classes []config.KeywordGroup
}

func New(scorer relevance.Scorer, weights config.ScoreWeights, classes []config.KeywordGroup) *Ranker {
	return &Ranker{scorer: scorer, weights: weights, classes: classes}
}

// Rank assigns an importance score and a contiguous 1..N rank to every
// section, ordered by descending score. The sort is stable: ties keep
// their original segmentation order.
func (r *Ranker) Rank(sections []model.Section, persona model.PersonaProfile, job model.JobProfile) []model.Section {
	if len(sections) == 0 {
		return nil
	}

	ranked := make([]model.Section, len(sections))
	copy(ranked, sections)

	for i := range ranked {
		ranked[i].RelevanceScore = r.importance(ranked[i], persona, job)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	for i := range ranked {
		ranked[i].ImportanceRank = i + 1
	}

	return ranked
}

// importance combines relevance with structural quality signals.
func (r *Ranker) importance(sec model.Section, persona model.PersonaProfile, job model.JobProfile) float64 {
	rel := r.scorer.Score(sec.Content, persona, job)

	return rel*r.weights.Relevance +
		uniqueness(sec.Content)*r.weights.Uniqueness +
		completeness(sec.Content)*r.weights.Completeness +
		lengthFitness(sec.Content)*r.weights.Length
}

// Reselect rebalances a ranked list across content classes: up to three
// top sections per non-empty class, then remaining sections by score, up
// to limit in total. Ranks are renumbered 1..M over the result.
//
// De-duplication between selected and remaining is by position in the
// input slice, never by value, so sections with identical content are
// never collapsed.
func (r *Ranker) Reselect(ranked []model.Section, limit int) []model.Section {
	if len(ranked) == 0 {
		return nil
	}

	// Partition indices by content class, preserving score order (the
	// input is already sorted by descending score). Classes are visited in
	// declaration order, with "other" last.
	classIdx := make(map[string][]int, len(r.classes)+1)
	for i := range ranked {
		class := r.classify(ranked[i].Content)
		classIdx[class] = append(classIdx[class], i)
	}
	classOrder := make([]string, 0, len(r.classes)+1)
	for _, class := range r.classes {
		classOrder = append(classOrder, class.Name)
	}
	classOrder = append(classOrder, "other")

	picked := make(map[int]bool, len(ranked))
	var out []model.Section

	for _, class := range classOrder {
		indices := classIdx[class]
		if len(indices) > perClassLimit {
			indices = indices[:perClassLimit]
		}
		for _, idx := range indices {
			out = append(out, ranked[idx])
			picked[idx] = true
		}
	}

	// Remaining sections, highest score first, up to the total cap.
	for idx := range ranked {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !picked[idx] {
			out = append(out, ranked[idx])
			picked[idx] = true
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].ImportanceRank = i + 1
	}

	return out
}

// classify assigns a section body to the first matching content class, or
// "other" when none match.
func (r *Ranker) classify(content string) string {
	lower := strings.ToLower(content)
	for _, class := range r.classes {
		for _, kw := range class.Keywords {
			if strings.Contains(lower, kw) {
				return class.Name
			}
		}
	}
	return "other"
}

// uniqueness is the ratio of distinct to total words of length >= 4,
// scaled x2.
func uniqueness(content string) float64 {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(content)) {
		if len(w) >= 4 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0
	}

	distinct := make(map[string]bool, len(words))
	for _, w := range words {
		distinct[w] = true
	}

	ratio := float64(len(distinct)) / float64(len(words)) * 2
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// completeness sums indicator bonuses for substantial, structured,
// detailed, well-sentenced content, capped at 1.
func completeness(content string) float64 {
	score := 0.0

	if len(content) > 200 {
		score += 0.3
	}
	for _, marker := range structureMarkers {
		if strings.Contains(content, marker) {
			score += 0.2
			break
		}
	}
	if digitPattern.MatchString(content) {
		score += 0.2
	}

	sentences := 0
	for _, s := range strings.Split(content, ".") {
		if len(strings.TrimSpace(s)) > 10 {
			sentences++
		}
	}
	if sentences >= 3 {
		score += 0.3
	}

	if score > 1 {
		score = 1
	}
	return score
}

// lengthFitness prefers bodies of 200-800 chars, degrading linearly below
// and hyperbolically (floored at 0.5) above.
func lengthFitness(content string) float64 {
	n := len(content)
	switch {
	case n >= 200 && n <= 800:
		return 1.0
	case n < 200:
		return float64(n) / 200
	default:
		v := 800 / float64(n)
		if v < 0.5 {
			v = 0.5
		}
		return v
	}
}
