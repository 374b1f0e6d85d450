package llm

import "context"

type purposeKey struct{}

// Purpose labels attached to LLM requests for telemetry.
const (
	PurposeGrading     = "grading"
	PurposeEstimate    = "mastery-estimate"
	PurposeQuestionGen = "question-gen"
	PurposePace        = "pace"
)

// WithPurpose tags the context with what the upcoming request is for.
// The event logger persists the tag alongside the request record.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom reads the purpose tag, or "unknown" for untagged contexts.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}
