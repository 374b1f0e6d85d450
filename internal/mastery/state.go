package mastery

import "time"

// Status represents a subtopic's position in the mastery lifecycle.
// Mastered is terminal; a subtopic never leaves it.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusMastered   Status = "mastered"
)

// Transition records a subtopic status change for display and event logging.
type Transition struct {
	SubtopicID   string
	SubtopicName string
	From         Status
	To           Status
	At           time.Time
	Trigger      string // "first-attempt", "threshold-met"
}
