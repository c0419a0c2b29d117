// Package resolver maps spoken entity references ("Shivam clg", "mom")
// onto canonical directory values. Matching is tiered: exact, context
// words stripped, then prefix/substring with a deterministic tie-break.
package resolver

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	stderrors "assistant-core/internal/common/errors"
)

// TieBreak selects how a multi-candidate substring match is settled.
type TieBreak string

const (
	// TieBreakShortestLabel prefers the candidate whose label is closest
	// in length to the query. The default.
	TieBreakShortestLabel TieBreak = "shortest_label"
	// TieBreakLevenshtein prefers the candidate with the smallest edit
	// distance to the query.
	TieBreakLevenshtein TieBreak = "levenshtein"
)

// Match is a successful resolution: the directory label that matched
// and the canonical value it maps to.
type Match struct {
	Label     string
	Canonical string
}

// Matcher resolves free-form references against a fixed directory.
// Immutable after construction, safe for concurrent use.
type Matcher struct {
	index      map[string]Match
	canonicals map[string]struct{}
	labels     []string
	stripWords map[string]struct{}
	tieBreak   TieBreak
}

// NewMatcher builds a matcher over directory, a label -> canonical map.
// stripWords are trailing context words ("clg", "sir") discarded during
// the second matching tier.
func NewMatcher(directory map[string]string, stripWords []string, tieBreak TieBreak) *Matcher {
	m := &Matcher{
		index:      make(map[string]Match, len(directory)),
		canonicals: make(map[string]struct{}, len(directory)),
		stripWords: make(map[string]struct{}, len(stripWords)),
		tieBreak:   tieBreak,
	}
	if m.tieBreak == "" {
		m.tieBreak = TieBreakShortestLabel
	}
	for label, canonical := range directory {
		key := normalize(label)
		m.index[key] = Match{Label: label, Canonical: canonical}
		m.canonicals[normalize(canonical)] = struct{}{}
		m.labels = append(m.labels, key)
	}
	// Sorted labels keep substring scans deterministic regardless of
	// map iteration order.
	sort.Strings(m.labels)
	for _, w := range stripWords {
		m.stripWords[normalize(w)] = struct{}{}
	}
	return m
}

// Resolve maps query onto a directory entry. Resolution is idempotent:
// a query that already equals a canonical value resolves to itself.
func (m *Matcher) Resolve(query string) (Match, error) {
	q := normalize(query)
	if q == "" {
		return Match{}, stderrors.NewEntityNotFoundError(query)
	}

	// Tier 1: exact label, or an already-canonical value.
	if hit, ok := m.index[q]; ok {
		return hit, nil
	}
	if _, ok := m.canonicals[q]; ok {
		return Match{Label: query, Canonical: query}, nil
	}

	// Tier 2: retry with trailing context words stripped.
	if stripped := m.stripTrailing(q); stripped != q {
		if hit, ok := m.index[stripped]; ok {
			return hit, nil
		}
		q = stripped
	}

	// Tier 3: prefix and substring, both directions.
	if hit, ok := m.fuzzy(q); ok {
		return hit, nil
	}

	return Match{}, stderrors.NewEntityNotFoundError(query)
}

func (m *Matcher) stripTrailing(q string) string {
	words := strings.Fields(q)
	for len(words) > 1 {
		last := words[len(words)-1]
		if _, ok := m.stripWords[last]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func (m *Matcher) fuzzy(q string) (Match, bool) {
	var candidates []string
	for _, label := range m.labels {
		if strings.HasPrefix(label, q) || strings.HasPrefix(q, label) ||
			strings.Contains(label, q) || strings.Contains(q, label) {
			candidates = append(candidates, label)
		}
	}
	switch len(candidates) {
	case 0:
		return Match{}, false
	case 1:
		return m.index[candidates[0]], true
	}
	return m.index[m.settle(q, candidates)], true
}

// settle picks one candidate deterministically. Candidates arrive in
// sorted order, so equal scores always resolve the same way.
func (m *Matcher) settle(q string, candidates []string) string {
	best := candidates[0]
	bestScore := m.score(q, best)
	for _, c := range candidates[1:] {
		if s := m.score(q, c); s < bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

func (m *Matcher) score(q, label string) int {
	if m.tieBreak == TieBreakLevenshtein {
		return levenshtein.ComputeDistance(q, label)
	}
	return len(label)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
