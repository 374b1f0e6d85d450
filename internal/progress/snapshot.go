// Package progress persists a per-user JSON snapshot of the learning run.
// The file is informational: sessions append to its assessment history but
// engine state always starts fresh, so mastery must be re-earned per run.
package progress

import (
	"time"

	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/mastery"
	"github.com/abhisek/sqlcoach/internal/pace"
	"github.com/abhisek/sqlcoach/internal/weakness"
)

// Snapshot is the full on-disk progress picture for one user.
type Snapshot struct {
	UserID             string                     `json:"user_id"`
	Topic              string                     `json:"topic,omitempty"`
	CurrentSubtopic    string                     `json:"current_subtopic"`
	CurrentSubtopicID  string                     `json:"current_subtopic_id"`
	SubtopicsCompleted int                        `json:"subtopics_completed"`
	TotalSubtopics     int                        `json:"total_subtopics"`
	OverallProgress    float64                    `json:"overall_progress"`
	LastUpdated        time.Time                  `json:"last_updated"`
	Subtopics          map[string]SubtopicSummary `json:"subtopic_progress"`
	WeakConcepts       []WeakConceptRecord        `json:"weak_concepts"`
	ConceptGaps        []string                   `json:"concept_gaps"`
	Pace               PaceRecord                 `json:"pace_profile"`
	Assessments        []AssessmentRecord         `json:"problem_assessments"`
}

// SubtopicSummary is one subtopic's mastery picture.
type SubtopicSummary struct {
	Name               string             `json:"subtopic_name"`
	MasteryProbability float64            `json:"mastery_probability"`
	MasteryAchieved    bool               `json:"mastery_achieved"`
	TotalAttempts      int                `json:"total_attempts"`
	CorrectAttempts    int                `json:"correct_attempts"`
	CompletedAt        *time.Time         `json:"completed_at"`
	ConceptScores      map[string]float64 `json:"concept_scores,omitempty"`
}

// WeakConceptRecord mirrors the tracker's weak-concept entries.
type WeakConceptRecord struct {
	Name        string    `json:"name"`
	Occurrences int       `json:"occurrences"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	Severity    string    `json:"severity"`
}

// PaceRecord is the persisted pace profile.
type PaceRecord struct {
	Category  string `json:"category"`
	Reasoning string `json:"reasoning"`
}

// JudgmentRecord is the persisted grading result for one attempt.
type JudgmentRecord struct {
	IsCorrect            bool               `json:"is_correct"`
	Score                int                `json:"score"`
	Feedback             string             `json:"feedback"`
	Explanation          string             `json:"explanation"`
	WeakConcepts         []string           `json:"weak_concepts"`
	MissingConcepts      []string           `json:"missing_concepts"`
	ConceptUnderstanding map[string]float64 `json:"concept_understanding"`
}

// EstimateRecord is the persisted mastery estimate for one attempt.
type EstimateRecord struct {
	MasteryProbability float64 `json:"mastery_probability"`
	Feedback           string  `json:"feedback"`
	Confidence         string  `json:"confidence_level"`
	MasteryAchieved    bool    `json:"mastery_achieved"`
}

// AssessmentRecord is one entry of the flat per-problem history. The list
// survives across sessions.
type AssessmentRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	ProblemID  string         `json:"problem_id"`
	SubtopicID string         `json:"subtopic_id"`
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
	Pace       PaceRecord     `json:"pace"`
	Judgment   JudgmentRecord `json:"judgment"`
	Estimate   EstimateRecord `json:"estimate"`
}

// NewJudgmentRecord converts a grading judgment for persistence.
func NewJudgmentRecord(j grading.Judgment) JudgmentRecord {
	return JudgmentRecord{
		IsCorrect:            j.IsCorrect,
		Score:                j.Score,
		Feedback:             j.Feedback,
		Explanation:          j.Explanation,
		WeakConcepts:         j.WeakConcepts,
		MissingConcepts:      j.MissingConcepts,
		ConceptUnderstanding: j.ConceptUnderstanding,
	}
}

// BuildInput collects the live engine state a snapshot is derived from.
type BuildInput struct {
	UserID      string
	Topic       string
	Current     *curriculum.Subtopic // nil when the run is complete
	States      []*mastery.SubtopicState
	Weak        []weakness.WeakConcept
	Gaps        []string
	Pace        pace.Profile
	Assessments []AssessmentRecord
}

// BuildSnapshot derives a full snapshot from live engine state.
func BuildSnapshot(in BuildInput) *Snapshot {
	snap := &Snapshot{
		UserID:          in.UserID,
		Topic:           in.Topic,
		CurrentSubtopic: "Completed",
		TotalSubtopics:  len(in.States),
		LastUpdated:     time.Now().UTC(),
		Subtopics:       make(map[string]SubtopicSummary, len(in.States)),
		ConceptGaps:     in.Gaps,
		Pace:            PaceRecord{Category: in.Pace.Category, Reasoning: in.Pace.Reasoning},
		Assessments:     in.Assessments,
	}
	if in.Current != nil {
		snap.CurrentSubtopic = in.Current.Name
		snap.CurrentSubtopicID = in.Current.ID
	}

	for _, s := range in.States {
		summary := SubtopicSummary{
			Name:               s.Name,
			MasteryProbability: s.MasteryProbability,
			MasteryAchieved:    s.MasteryAchieved,
			TotalAttempts:      s.TotalAttempts,
			CorrectAttempts:    s.CorrectAttempts,
			CompletedAt:        s.CompletedAt,
		}
		if len(s.ConceptScores) > 0 {
			summary.ConceptScores = make(map[string]float64, len(s.ConceptScores))
			for name, cs := range s.ConceptScores {
				summary.ConceptScores[name] = cs.Mean
			}
		}
		snap.Subtopics[s.SubtopicID] = summary
		if s.MasteryAchieved {
			snap.SubtopicsCompleted++
		}
	}

	if snap.TotalSubtopics > 0 {
		snap.OverallProgress = float64(snap.SubtopicsCompleted) / float64(snap.TotalSubtopics) * 100
	}

	for _, wc := range in.Weak {
		snap.WeakConcepts = append(snap.WeakConcepts, WeakConceptRecord{
			Name:        wc.Name,
			Occurrences: wc.Occurrences,
			FirstSeen:   wc.FirstSeen,
			LastSeen:    wc.LastSeen,
			Severity:    wc.Severity,
		})
	}

	return snap
}
