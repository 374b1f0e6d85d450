package mastery

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/grading"
)

func testGraph(t *testing.T) *curriculum.Graph {
	t.Helper()
	g, err := curriculum.New([]curriculum.Topic{
		{
			Name: "SQL Joins",
			Subtopics: []curriculum.Subtopic{
				{ID: "sub_a", Name: "Inner Joins", Clusters: []curriculum.Cluster{{ID: "cl_a", Name: "Basics", Complexity: 1}}},
				{ID: "sub_b", Name: "Outer Joins", Clusters: []curriculum.Cluster{{ID: "cl_b", Name: "Left", Complexity: 2}}},
				{ID: "sub_c", Name: "Self Joins", Clusters: []curriculum.Cluster{{ID: "cl_c", Name: "Hierarchy", Complexity: 3}}},
			},
		},
	})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func testFacts() QuestionFacts {
	return QuestionFacts{
		QuestionID: "p1",
		Text:       "Join customers to orders.",
		Difficulty: "easy",
		Concepts:   []string{"INNER JOIN syntax", "ON clause"},
	}
}

func correctJudgment() grading.Judgment {
	return grading.Judgment{
		IsCorrect:            true,
		Score:                90,
		Feedback:             "Good.",
		Explanation:          "Correct join.",
		WeakConcepts:         []string{},
		MissingConcepts:      []string{},
		ConceptUnderstanding: map[string]float64{"INNER JOIN syntax": 0.9},
	}
}

func TestRecord_FirstAttemptTransition(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	attempt, tr, err := l.Record("sub_a", testFacts(), "SELECT 1", correctJudgment())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if attempt.ID == "" {
		t.Error("attempt id not assigned")
	}
	if tr == nil {
		t.Fatal("expected first-attempt transition")
	}
	if tr.From != StatusNotStarted || tr.To != StatusInProgress || tr.Trigger != "first-attempt" {
		t.Errorf("transition = %+v", tr)
	}

	// Second attempt: no transition.
	_, tr, err = l.Record("sub_a", testFacts(), "SELECT 2", correctJudgment())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tr != nil {
		t.Errorf("unexpected transition on second attempt: %+v", tr)
	}
}

func TestRecord_CountersAndConcepts(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	j := correctJudgment()
	j.ConceptUnderstanding = map[string]float64{"INNER JOIN syntax": 0.9, "ON clause": 0.3}
	if _, _, err := l.Record("sub_a", testFacts(), "SELECT 1", j); err != nil {
		t.Fatalf("record: %v", err)
	}

	wrong := grading.Judgment{IsCorrect: false, Score: 20, ConceptUnderstanding: map[string]float64{"ON clause": 0.5}}
	if _, _, err := l.Record("sub_a", testFacts(), "SELECT bad", wrong); err != nil {
		t.Fatalf("record: %v", err)
	}

	s := l.State("sub_a")
	if s.TotalAttempts != 2 || s.CorrectAttempts != 1 {
		t.Errorf("counters = %d/%d, want 2/1", s.TotalAttempts, s.CorrectAttempts)
	}
	if len(s.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(s.Attempts))
	}
	if s.Attempts[0].UserAnswer != "SELECT 1" || s.Attempts[1].UserAnswer != "SELECT bad" {
		t.Error("attempts not stored in order")
	}

	wantEncountered := []string{"INNER JOIN syntax", "ON clause"}
	if diff := cmp.Diff(wantEncountered, s.ConceptsEncountered); diff != "" {
		t.Errorf("concepts encountered mismatch (-want +got):\n%s", diff)
	}

	// ON clause mean: (0.3 + 0.5) / 2 = 0.4.
	if got := s.ConceptScores["ON clause"].Mean; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("ON clause mean = %v, want 0.4", got)
	}

	if diff := cmp.Diff([]string{"INNER JOIN syntax"}, s.ConceptsMastered()); diff != "" {
		t.Errorf("mastered mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ON clause"}, s.ConceptsStruggling()); diff != "" {
		t.Errorf("struggling mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_UnknownSubtopic(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())
	if _, _, err := l.Record("sub_zzz", testFacts(), "SELECT 1", correctJudgment()); err == nil {
		t.Fatal("expected error for unknown subtopic")
	}
}

func TestRunningMean_ThreeObservations(t *testing.T) {
	mean := 0.0
	for i, v := range []float64{0.2, 0.6, 1.0} {
		mean = runningMean(mean, i, v)
	}
	if math.Abs(mean-0.6) > 1e-9 {
		t.Errorf("mean = %v, want 0.6", mean)
	}
}

func TestApplyEstimate_FoldsRunningMean(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	for _, p := range []float64{0.2, 0.6, 1.0} {
		if _, err := l.ApplyEstimate("sub_a", p); err != nil {
			t.Fatalf("apply estimate: %v", err)
		}
	}

	s := l.State("sub_a")
	if math.Abs(s.MasteryProbability-0.6) > 1e-9 {
		t.Errorf("probability = %v, want 0.6", s.MasteryProbability)
	}
	if s.EstimateCount != 3 {
		t.Errorf("estimate count = %d, want 3", s.EstimateCount)
	}
}

func TestApplyEstimate_FloorBlocksMastery(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	// Two attempts, sky-high probability: still not mastered.
	for i := 0; i < 2; i++ {
		if _, _, err := l.Record("sub_a", testFacts(), "SELECT 1", correctJudgment()); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	tr, err := l.ApplyEstimate("sub_a", 0.95)
	if err != nil {
		t.Fatalf("apply estimate: %v", err)
	}
	if tr != nil {
		t.Fatalf("mastery fired below the attempt floor: %+v", tr)
	}
	if l.State("sub_a").MasteryAchieved {
		t.Fatal("mastery_achieved = true with 2 attempts")
	}

	// Third attempt crosses the floor; the next estimate may fire.
	if _, _, err := l.Record("sub_a", testFacts(), "SELECT 1", correctJudgment()); err != nil {
		t.Fatalf("record: %v", err)
	}
	tr, err = l.ApplyEstimate("sub_a", 0.95)
	if err != nil {
		t.Fatalf("apply estimate: %v", err)
	}
	if tr == nil {
		t.Fatal("expected mastery transition")
	}
	if tr.To != StatusMastered || tr.Trigger != "threshold-met" {
		t.Errorf("transition = %+v", tr)
	}

	s := l.State("sub_a")
	if !s.MasteryAchieved || s.CompletedAt == nil || s.Status != StatusMastered {
		t.Errorf("state after mastery = %+v", s)
	}
}

func TestApplyEstimate_MasteryIrreversible(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	for i := 0; i < 3; i++ {
		if _, _, err := l.Record("sub_a", testFacts(), "SELECT 1", correctJudgment()); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if _, err := l.ApplyEstimate("sub_a", 0.9); err != nil {
		t.Fatalf("apply estimate: %v", err)
	}

	s := l.State("sub_a")
	completedAt := s.CompletedAt
	if completedAt == nil {
		t.Fatal("completed_at not set")
	}

	// A string of terrible estimates must not demote the subtopic.
	for i := 0; i < 5; i++ {
		tr, err := l.ApplyEstimate("sub_a", 0.05)
		if err != nil {
			t.Fatalf("apply estimate: %v", err)
		}
		if tr != nil {
			t.Fatalf("unexpected transition after mastery: %+v", tr)
		}
	}

	if !s.MasteryAchieved || s.Status != StatusMastered {
		t.Error("mastery reverted")
	}
	if s.CompletedAt != completedAt {
		t.Error("completed_at changed after mastery")
	}
}

func TestApplyEstimate_ClampsProbability(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	if _, err := l.ApplyEstimate("sub_a", 1.7); err != nil {
		t.Fatalf("apply estimate: %v", err)
	}
	if got := l.State("sub_a").MasteryProbability; got != 1.0 {
		t.Errorf("probability = %v, want clamped 1.0", got)
	}

	l2 := NewLedger(testGraph(t), DefaultConfig())
	if _, err := l2.ApplyEstimate("sub_a", -0.4); err != nil {
		t.Fatalf("apply estimate: %v", err)
	}
	if got := l2.State("sub_a").MasteryProbability; got != 0.0 {
		t.Errorf("probability = %v, want clamped 0.0", got)
	}
}

func TestResetRun_ClearsRunState(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	if _, _, err := l.Record("sub_b", testFacts(), "SELECT 1", correctJudgment()); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := l.ApplyEstimate("sub_b", 0.5); err != nil {
		t.Fatalf("apply estimate: %v", err)
	}

	l.ResetRun("sub_b")

	s := l.State("sub_b")
	if s.Status != StatusNotStarted {
		t.Errorf("status = %q, want not_started", s.Status)
	}
	if s.MasteryProbability != 0 || s.EstimateCount != 0 {
		t.Errorf("probability state = %v/%d, want zeroes", s.MasteryProbability, s.EstimateCount)
	}
	if s.TotalAttempts != 0 || len(s.Attempts) != 0 {
		t.Errorf("attempt state = %d/%d, want zeroes", s.TotalAttempts, len(s.Attempts))
	}
	if len(s.ConceptScores) != 0 || len(s.ConceptsEncountered) != 0 {
		t.Error("concept state not cleared")
	}
}

func TestResetRun_NeverTouchesMastered(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	for i := 0; i < 3; i++ {
		if _, _, err := l.Record("sub_a", testFacts(), "SELECT 1", correctJudgment()); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if _, err := l.ApplyEstimate("sub_a", 0.95); err != nil {
		t.Fatalf("apply estimate: %v", err)
	}

	l.ResetRun("sub_a")

	s := l.State("sub_a")
	if !s.MasteryAchieved || s.TotalAttempts != 3 {
		t.Error("reset must not touch a mastered subtopic")
	}
}

func TestStates_SequenceOrder(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())

	var ids []string
	for _, s := range l.States() {
		ids = append(ids, s.SubtopicID)
	}
	if diff := cmp.Diff([]string{"sub_a", "sub_b", "sub_c"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMasteredCount(t *testing.T) {
	l := NewLedger(testGraph(t), DefaultConfig())
	if l.MasteredCount() != 0 {
		t.Fatalf("mastered count = %d, want 0", l.MasteredCount())
	}

	for i := 0; i < 3; i++ {
		if _, _, err := l.Record("sub_a", testFacts(), "SELECT 1", correctJudgment()); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if _, err := l.ApplyEstimate("sub_a", 0.9); err != nil {
		t.Fatalf("apply estimate: %v", err)
	}
	if l.MasteredCount() != 1 {
		t.Fatalf("mastered count = %d, want 1", l.MasteredCount())
	}
}
