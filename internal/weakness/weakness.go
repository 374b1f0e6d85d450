// Package weakness accumulates weak concepts and concept gaps reported by
// the grader across attempts on the current subtopic. The progression
// controller consumes the ranking to bias cluster and problem selection,
// and resets the tracker whenever the learner advances.
package weakness

import (
	"sort"
	"time"
)

// topPriority is how many ranked weak concepts and how many gaps feed the
// priority list handed to the progression controller.
const topPriority = 3

// WeakConcept is a concept the learner attempted but applied shakily.
type WeakConcept struct {
	Name        string
	Occurrences int
	FirstSeen   time.Time
	LastSeen    time.Time
	Severity    string
}

// Tracker counts weak-concept reports and collects concept gaps. It is
// scoped to a single subtopic pass and rebuilt from scratch on advance.
type Tracker struct {
	weak  map[string]*WeakConcept
	order []string // first-seen order, tie-break for ranking

	gaps   []string
	gapSet map[string]struct{}
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Ingest records one graded attempt's weak and missing concepts. Repeat
// reports of a weak concept bump its occurrence count; gaps are
// deduplicated and append-only. Empty lists leave the tracker untouched.
func (t *Tracker) Ingest(weakConcepts, missingConcepts []string) {
	now := time.Now()
	for _, name := range weakConcepts {
		if name == "" {
			continue
		}
		if wc, ok := t.weak[name]; ok {
			wc.Occurrences++
			wc.LastSeen = now
			continue
		}
		t.weak[name] = &WeakConcept{
			Name:        name,
			Occurrences: 1,
			FirstSeen:   now,
			LastSeen:    now,
			Severity:    "high",
		}
		t.order = append(t.order, name)
	}
	for _, name := range missingConcepts {
		if name == "" {
			continue
		}
		if _, ok := t.gapSet[name]; ok {
			continue
		}
		t.gapSet[name] = struct{}{}
		t.gaps = append(t.gaps, name)
	}
}

// Rank returns weak-concept names sorted by occurrences descending, ties
// broken by first-seen order.
func (t *Tracker) Rank() []string {
	ranked := make([]string, len(t.order))
	copy(ranked, t.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.weak[ranked[i]].Occurrences > t.weak[ranked[j]].Occurrences
	})
	return ranked
}

// Priority is the concept list selection keys off: the top ranked weak
// concepts concatenated with the first gaps, deduplicated in order.
func (t *Tracker) Priority() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	ranked := t.Rank()
	if len(ranked) > topPriority {
		ranked = ranked[:topPriority]
	}
	add(ranked)
	gaps := t.gaps
	if len(gaps) > topPriority {
		gaps = gaps[:topPriority]
	}
	add(gaps)
	return out
}

// Weak returns the tracked weak concepts in first-seen order.
func (t *Tracker) Weak() []WeakConcept {
	out := make([]WeakConcept, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.weak[name])
	}
	return out
}

// Gaps returns the deduplicated concept-gap list in report order.
func (t *Tracker) Gaps() []string {
	out := make([]string, len(t.gaps))
	copy(out, t.gaps)
	return out
}

// Reset clears all tracked state. The progression controller calls this
// exactly once per advance.
func (t *Tracker) Reset() {
	t.weak = make(map[string]*WeakConcept)
	t.order = nil
	t.gaps = nil
	t.gapSet = make(map[string]struct{})
}
