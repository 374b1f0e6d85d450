package mastery

import "time"

// QuestionFacts carries the question metadata recorded with each attempt.
type QuestionFacts struct {
	QuestionID string
	Text       string
	Difficulty string
	Concepts   []string
}

// Attempt is one graded answer. Created exactly once per submission and
// never mutated afterward.
type Attempt struct {
	ID             string
	QuestionID     string
	Text           string
	Difficulty     string
	ConceptsTested []string
	UserAnswer     string
	IsCorrect      bool
	Score          int
	Explanation    string
	SubtopicID     string
	Timestamp      time.Time
}
