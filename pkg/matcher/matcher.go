// Package matcher ranks registered skills against a free-text task
// query. Scoring reads only the name and description recorded at scan
// time; skill bodies and resource files are never touched, so matching
// stays cheap no matter how large the corpus content is.
package matcher

import (
	"sort"
	"strings"
	"unicode"

	"github.com/skillhub/skillhub/pkg/skills"
)

// Match pairs a skill with its relevance score.
type Match struct {
	Descriptor *skills.Descriptor
	Score      float64
}

const (
	nameWeight        = 3.0
	descriptionWeight = 1.0
)

// Matcher scores descriptors by lexical token overlap. A query token
// found in a skill's name or description contributes a fixed positive
// weight, so adding a query token that a description contains never
// decreases that skill's score.
type Matcher struct {
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold sets the minimum score a skill must reach to appear in
// results. Defaults to 1 (at least one overlapping token).
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// New creates a Matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{threshold: descriptionWeight}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match ranks the registry's skills against query, best first, and
// returns at most topK results (topK <= 0 means unlimited). Identical
// (registry, query) inputs always produce identical output: the sort
// is stable and ties keep scan order. An empty result means nothing
// scored at or above the threshold; that is not an error.
func (m *Matcher) Match(registry *skills.Registry, query string, topK int) []Match {
	queryTokens := uniqueTokens(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var matches []Match
	for _, d := range registry.List() {
		score := scoreDescriptor(d, queryTokens)
		if score < m.threshold {
			continue
		}
		matches = append(matches, Match{Descriptor: d, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// scoreDescriptor sums, over the unique query tokens, a weight for
// presence in the name and a weight for presence in the description.
// Presence is set membership, not frequency, which keeps the score
// monotonic in the query.
func scoreDescriptor(d *skills.Descriptor, queryTokens []string) float64 {
	nameSet := tokenSet(d.Name)
	descSet := tokenSet(d.Description)

	var score float64
	for _, tok := range queryTokens {
		if nameSet[tok] {
			score += nameWeight
		}
		if descSet[tok] {
			score += descriptionWeight
		}
	}
	return score
}

// tokenize splits text into lowercased alphanumeric runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func uniqueTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenize(text) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(text) {
		set[tok] = true
	}
	return set
}
