package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match ("" = all)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for a single purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for a single model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// AttemptEventData captures the data for a single graded answer attempt.
type AttemptEventData struct {
	UserID     string
	SubtopicID string
	ProblemID  string
	Correct    bool
	Score      int
}

// AttemptEvent is a stored answer attempt event.
type AttemptEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// SubtopicTotals aggregates attempt counts for one subtopic.
type SubtopicTotals struct {
	SubtopicID string
	Attempts   int
	Correct    int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events matching opts, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single LLM event by row ID, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates LLM usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates LLM usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendAttempt records a graded answer attempt.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// QueryAttempts returns a user's attempt events matching opts, oldest first.
	QueryAttempts(ctx context.Context, userID string, opts QueryOpts) ([]AttemptEvent, error)

	// AttemptTotals aggregates a user's attempts per subtopic.
	AttemptTotals(ctx context.Context, userID string) ([]SubtopicTotals, error)

	// DeleteUserAttempts removes all attempt events for a user and reports
	// how many rows were deleted.
	DeleteUserAttempts(ctx context.Context, userID string) (int64, error)
}
