package mastery

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/logging"
)

// Config holds the mastery transition rule parameters.
type Config struct {
	// Threshold is the mastery probability a subtopic must reach.
	Threshold float64
	// MinAttempts is the attempt floor below which mastery never fires,
	// regardless of probability.
	MinAttempts int
}

// DefaultConfig returns the standard transition rule.
func DefaultConfig() Config {
	return Config{
		Threshold:   0.80,
		MinAttempts: 3,
	}
}

// Ledger owns per-subtopic attempt history and the mastery state machine.
// One state exists for every subtopic in the curriculum from the start,
// so status queries never miss.
type Ledger struct {
	states map[string]*SubtopicState
	order  []string
	cfg    Config
	log    *slog.Logger
}

// NewLedger creates a ledger with a zero-probability state per subtopic,
// in curriculum sequence order.
func NewLedger(graph *curriculum.Graph, cfg Config) *Ledger {
	l := &Ledger{
		states: make(map[string]*SubtopicState),
		cfg:    cfg,
		log:    logging.New("mastery"),
	}
	for _, sub := range graph.Subtopics() {
		l.states[sub.ID] = newSubtopicState(sub.ID, sub.Name)
		l.order = append(l.order, sub.ID)
	}
	return l
}

// State returns the state for a subtopic, or nil if the id is unknown.
func (l *Ledger) State(subtopicID string) *SubtopicState {
	return l.states[subtopicID]
}

// States returns all subtopic states in curriculum sequence order.
func (l *Ledger) States() []*SubtopicState {
	out := make([]*SubtopicState, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.states[id])
	}
	return out
}

// MasteredCount returns how many subtopics have achieved mastery.
func (l *Ledger) MasteredCount() int {
	n := 0
	for _, s := range l.states {
		if s.MasteryAchieved {
			n++
		}
	}
	return n
}

// Record appends a graded attempt to the subtopic's history: counters,
// encountered concepts and per-concept running means all update from the
// judgment. Returns the stored attempt, plus a Transition when this was the
// subtopic's first attempt. Fails only on an unknown subtopic.
func (l *Ledger) Record(subtopicID string, q QuestionFacts, answer string, j grading.Judgment) (*Attempt, *Transition, error) {
	s, ok := l.states[subtopicID]
	if !ok {
		return nil, nil, fmt.Errorf("unknown subtopic: %q", subtopicID)
	}

	var transition *Transition
	if s.Status == StatusNotStarted {
		transition = &Transition{
			SubtopicID:   s.SubtopicID,
			SubtopicName: s.Name,
			From:         StatusNotStarted,
			To:           StatusInProgress,
			At:           time.Now(),
			Trigger:      "first-attempt",
		}
		s.Status = StatusInProgress
	}

	attempt := Attempt{
		ID:             uuid.NewString(),
		QuestionID:     q.QuestionID,
		Text:           q.Text,
		Difficulty:     q.Difficulty,
		ConceptsTested: q.Concepts,
		UserAnswer:     answer,
		IsCorrect:      j.IsCorrect,
		Score:          j.Score,
		Explanation:    j.Explanation,
		SubtopicID:     subtopicID,
		Timestamp:      time.Now(),
	}
	s.Attempts = append(s.Attempts, attempt)

	s.TotalAttempts++
	if j.IsCorrect {
		s.CorrectAttempts++
	}

	s.encounterConcepts(q.Concepts)
	for name, understanding := range j.ConceptUnderstanding {
		s.encounterConcepts([]string{name})
		s.observeConcept(name, understanding)
	}

	return &attempt, transition, nil
}

// ApplyEstimate folds a mastery probability estimate into the subtopic's
// running probability and fires the mastery transition when both the
// threshold and the attempt floor are met. The transition is irreversible:
// once mastered, later estimates change nothing. Returns the transition
// when mastery fires, nil otherwise.
func (l *Ledger) ApplyEstimate(subtopicID string, probability float64) (*Transition, error) {
	s, ok := l.states[subtopicID]
	if !ok {
		return nil, fmt.Errorf("unknown subtopic: %q", subtopicID)
	}

	if s.MasteryAchieved {
		return nil, nil
	}

	probability = clampUnit(probability)
	s.MasteryProbability = clampUnit(runningMean(s.MasteryProbability, s.EstimateCount, probability))
	s.EstimateCount++

	if s.MasteryProbability >= l.cfg.Threshold && s.TotalAttempts >= l.cfg.MinAttempts {
		now := time.Now()
		from := s.Status
		s.MasteryAchieved = true
		s.CompletedAt = &now
		s.Status = StatusMastered

		l.log.Info("subtopic mastered",
			"subtopic", s.SubtopicID,
			"probability", s.MasteryProbability,
			"attempts", s.TotalAttempts)

		return &Transition{
			SubtopicID:   s.SubtopicID,
			SubtopicName: s.Name,
			From:         from,
			To:           StatusMastered,
			At:           now,
			Trigger:      "threshold-met",
		}, nil
	}

	return nil, nil
}

// ResetRun wipes a subtopic's run state for a fresh start: probability,
// counters, attempt history and concept scores all return to zero. A
// mastered subtopic is never reset; mastery is terminal.
func (l *Ledger) ResetRun(subtopicID string) {
	s, ok := l.states[subtopicID]
	if !ok || s.MasteryAchieved {
		return
	}
	l.states[subtopicID] = newSubtopicState(s.SubtopicID, s.Name)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
