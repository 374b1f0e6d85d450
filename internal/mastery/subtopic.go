package mastery

import "time"

// Concept score bands. Scores are running means of the grader's 0.0-1.0
// per-concept understanding ratings.
const (
	conceptMasteredFloor  = 0.8
	conceptStrugglingCeil = 0.5
)

// ConceptScore is the running mean of understanding ratings for one concept.
type ConceptScore struct {
	Mean     float64
	Attempts int
}

// SubtopicState accumulates one subtopic's attempt history and mastery
// progress for the current run. Advancing past a subtopic and later
// returning to it starts a fresh run.
type SubtopicState struct {
	SubtopicID string
	Name       string
	Status     Status

	// MasteryProbability is the running mean of estimator probabilities
	// folded in so far this run. EstimateCount is how many were folded.
	MasteryProbability float64
	EstimateCount      int

	TotalAttempts   int
	CorrectAttempts int
	Attempts        []Attempt

	// ConceptsEncountered preserves first-seen order.
	ConceptsEncountered []string
	ConceptScores       map[string]*ConceptScore

	// MasteryAchieved flips false→true exactly once. CompletedAt is set at
	// that moment and never changes.
	MasteryAchieved bool
	CompletedAt     *time.Time
}

func newSubtopicState(id, name string) *SubtopicState {
	return &SubtopicState{
		SubtopicID:    id,
		Name:          name,
		Status:        StatusNotStarted,
		ConceptScores: make(map[string]*ConceptScore),
	}
}

// Accuracy returns the correct/total ratio for this run, or 0 with no attempts.
func (s *SubtopicState) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.CorrectAttempts) / float64(s.TotalAttempts)
}

// ConceptsMastered returns encountered concepts whose running mean is at or
// above the mastered band, in first-seen order.
func (s *SubtopicState) ConceptsMastered() []string {
	return s.conceptsInBand(func(mean float64) bool { return mean >= conceptMasteredFloor })
}

// ConceptsStruggling returns encountered concepts whose running mean is
// below the struggling band, in first-seen order.
func (s *SubtopicState) ConceptsStruggling() []string {
	return s.conceptsInBand(func(mean float64) bool { return mean < conceptStrugglingCeil })
}

func (s *SubtopicState) conceptsInBand(in func(float64) bool) []string {
	var out []string
	for _, name := range s.ConceptsEncountered {
		if cs, ok := s.ConceptScores[name]; ok && in(cs.Mean) {
			out = append(out, name)
		}
	}
	return out
}

// observeConcept folds one understanding rating into the concept's running mean.
func (s *SubtopicState) observeConcept(name string, understanding float64) {
	cs, ok := s.ConceptScores[name]
	if !ok {
		cs = &ConceptScore{}
		s.ConceptScores[name] = cs
	}
	cs.Mean = runningMean(cs.Mean, cs.Attempts, understanding)
	cs.Attempts++
}

// encounterConcepts unions names into the encountered list, preserving order.
func (s *SubtopicState) encounterConcepts(names []string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		seen := false
		for _, existing := range s.ConceptsEncountered {
			if existing == n {
				seen = true
				break
			}
		}
		if !seen {
			s.ConceptsEncountered = append(s.ConceptsEncountered, n)
		}
	}
}

// runningMean folds one new observation into an equal-weight mean over
// prevCount prior observations.
func runningMean(prev float64, prevCount int, incoming float64) float64 {
	return (prev*float64(prevCount) + incoming) / float64(prevCount+1)
}
