package grading

// Question carries what the grader needs to judge an answer.
type Question struct {
	Text       string
	Difficulty string
	Concepts   []string
}

// Judgment is the normalized grading result for one submitted answer.
// Every field is always populated; callers never see missing data.
type Judgment struct {
	IsCorrect            bool
	Score                int // 0-100
	Feedback             string
	Explanation          string
	WeakConcepts         []string
	MissingConcepts      []string
	ConceptUnderstanding map[string]float64 // concept name → 0.0-1.0
}
