package progression

import (
	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
)

// Question is one served practice question: the bank problem, its
// denormalized cluster context, and the text to show the learner. Text
// starts as the bank description; the session may replace it with a
// generated variant.
type Question struct {
	Problem bank.Problem
	Info    curriculum.ClusterInfo
	Text    string
}

// AdvanceEvent reports a cursor move between subtopics.
type AdvanceEvent struct {
	From curriculum.Subtopic
	To   curriculum.Subtopic
}

// Next is the outcome of one selection call. Exactly one of Question,
// Blocked or AllComplete describes it; Advanced rides along when the call
// also moved the cursor.
type Next struct {
	Question *Question

	// Blocked means the current subtopic has no eligible content. It ends
	// the run like completion does, but names what was missing.
	Blocked bool

	// AllComplete means every subtopic in the sequence is mastered.
	AllComplete bool

	// Message describes terminal outcomes in learner-facing words.
	Message string

	Advanced *AdvanceEvent
}
