package mastery

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAccuracy(t *testing.T) {
	s := newSubtopicState("sub_a", "Inner Joins")
	if got := s.Accuracy(); got != 0 {
		t.Errorf("accuracy with no attempts = %v, want 0", got)
	}

	s.TotalAttempts = 4
	s.CorrectAttempts = 3
	if got := s.Accuracy(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("accuracy = %v, want 0.75", got)
	}
}

func TestConceptBands_FirstSeenOrder(t *testing.T) {
	s := newSubtopicState("sub_a", "Inner Joins")
	s.encounterConcepts([]string{"GROUP BY", "HAVING", "ON clause"})
	s.observeConcept("GROUP BY", 0.9)
	s.observeConcept("HAVING", 0.2)
	s.observeConcept("ON clause", 0.85)
	s.observeConcept("HAVING", 0.4) // mean 0.3, still struggling

	if diff := cmp.Diff([]string{"GROUP BY", "ON clause"}, s.ConceptsMastered()); diff != "" {
		t.Errorf("mastered (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"HAVING"}, s.ConceptsStruggling()); diff != "" {
		t.Errorf("struggling (-want +got):\n%s", diff)
	}
}

func TestEncounterConcepts_Dedup(t *testing.T) {
	s := newSubtopicState("sub_a", "Inner Joins")
	s.encounterConcepts([]string{"JOIN", "WHERE"})
	s.encounterConcepts([]string{"WHERE", "JOIN", "ORDER BY"})

	if diff := cmp.Diff([]string{"JOIN", "WHERE", "ORDER BY"}, s.ConceptsEncountered); diff != "" {
		t.Errorf("encountered (-want +got):\n%s", diff)
	}
}

func TestObserveConcept_BoundaryBands(t *testing.T) {
	s := newSubtopicState("sub_a", "Inner Joins")
	s.observeConcept("exactly-mastered", 0.8)
	s.observeConcept("just-below", 0.79)
	s.observeConcept("exactly-floor", 0.5)
	s.observeConcept("below-floor", 0.49)

	if diff := cmp.Diff([]string{"exactly-mastered"}, s.ConceptsMastered()); diff != "" {
		t.Errorf("mastered (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"below-floor"}, s.ConceptsStruggling()); diff != "" {
		t.Errorf("struggling (-want +got):\n%s", diff)
	}
}
