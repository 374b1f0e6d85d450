package estimator

// Input is the fully serialized assessment context for one subtopic.
// BuildInput assembles it from the ledger state and the knowledge graph.
type Input struct {
	SubtopicName    string
	GraphContext    string
	AttemptHistory  string
	ConceptCoverage string
	TotalAttempts   int
	CorrectAttempts int
}

// Estimate is the assessor's verdict on one subtopic.
//
// MasteryAchieved is advisory: the ledger applies its own threshold and
// attempt-floor rule and ignores this flag when deciding transitions.
type Estimate struct {
	MasteryProbability float64
	Feedback           string
	Confidence         string
	MasteryAchieved    bool
}
