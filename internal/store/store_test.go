package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.EventRepo() == nil {
		t.Fatal("expected non-nil event repo")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"attempt_events", "llm_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "grading", InputTokens: 120, OutputTokens: 80, LatencyMs: 900, Success: true, RequestBody: `{"answer":"SELECT 1"}`, ResponseBody: `{"is_correct":true}`},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "mastery-estimate", InputTokens: 200, OutputTokens: 60, LatencyMs: 1100, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "grading", InputTokens: 90, OutputTokens: 40, LatencyMs: 0, Success: false, ErrorMessage: "rate limited"},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	// Newest first.
	if got[0].Purpose != "grading" || got[0].Provider != "openai" {
		t.Errorf("got[0] = %s/%s, want openai/grading", got[0].Provider, got[0].Purpose)
	}
	if got[0].Success {
		t.Error("got[0].Success = true, want false")
	}
	if got[2].RequestBody != `{"answer":"SELECT 1"}` {
		t.Errorf("request body = %q", got[2].RequestBody)
	}
	if got[2].Timestamp.IsZero() {
		t.Error("timestamp not populated")
	}
}

func TestQueryLLMEventsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		purpose := "grading"
		if i%2 == 1 {
			purpose = "question-gen"
		}
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: purpose, Success: true,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Errorf("purpose filter returned %d events, want 2", len(byPurpose))
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatalf("query with limit: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("limit returned %d events, want 3", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 3})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after filter returned %d events, want 2", len(after))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "pace", Success: true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	e, err := repo.GetLLMEvent(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event, got nil")
	}
	if e.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", e.Model)
	}

	missing, err := repo.GetLLMEvent(ctx, 99)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing id, got %+v", missing)
	}
}

func TestLLMUsageAggregation(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "grading", InputTokens: 100, OutputTokens: 50, LatencyMs: 1000, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "grading", InputTokens: 300, OutputTokens: 150, LatencyMs: 3000, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "mastery-estimate", InputTokens: 40, OutputTokens: 10, LatencyMs: 500, Success: true},
	}
	for i, d := range data {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	if byPurpose[0].Purpose != "grading" {
		t.Errorf("top purpose = %q, want grading", byPurpose[0].Purpose)
	}
	if byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 400 || byPurpose[0].OutputTokens != 200 {
		t.Errorf("grading usage = %+v", byPurpose[0])
	}
	if byPurpose[0].AvgLatencyMs != 2000 {
		t.Errorf("avg latency = %d, want 2000", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("got %d models, want 2", len(byModel))
	}
	if byModel[0].Model != "claude-sonnet-4-5" || byModel[0].Calls != 2 {
		t.Errorf("top model = %+v", byModel[0])
	}
}

func TestAppendAndQueryAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	attempts := []AttemptEventData{
		{UserID: "u1", SubtopicID: "sub_inner_join", ProblemID: "p_ij_001", Correct: true, Score: 90},
		{UserID: "u1", SubtopicID: "sub_inner_join", ProblemID: "p_ij_002", Correct: false, Score: 30},
		{UserID: "u1", SubtopicID: "sub_outer_join", ProblemID: "p_oj_001", Correct: true, Score: 85},
		{UserID: "u2", SubtopicID: "sub_inner_join", ProblemID: "p_ij_001", Correct: true, Score: 100},
	}
	for i, a := range attempts {
		if err := repo.AppendAttempt(ctx, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.QueryAttempts(ctx, "u1", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d attempts for u1, want 3", len(got))
	}
	// Oldest first.
	if got[0].ProblemID != "p_ij_001" || got[2].ProblemID != "p_oj_001" {
		t.Errorf("order = %s..%s", got[0].ProblemID, got[2].ProblemID)
	}
	if !got[0].Correct || got[1].Correct {
		t.Error("correct flags not round-tripped")
	}

	totals, err := repo.AttemptTotals(ctx, "u1")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d subtopics, want 2", len(totals))
	}
	if totals[0].SubtopicID != "sub_inner_join" || totals[0].Attempts != 2 || totals[0].Correct != 1 {
		t.Errorf("inner join totals = %+v", totals[0])
	}
	if totals[1].SubtopicID != "sub_outer_join" || totals[1].Attempts != 1 || totals[1].Correct != 1 {
		t.Errorf("outer join totals = %+v", totals[1])
	}
}

func TestDeleteUserAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.AppendAttempt(ctx, AttemptEventData{
			UserID: "u1", SubtopicID: "sub_inner_join", ProblemID: "p_ij_001", Correct: true, Score: 80,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	err := repo.AppendAttempt(ctx, AttemptEventData{
		UserID: "u2", SubtopicID: "sub_inner_join", ProblemID: "p_ij_001", Correct: true, Score: 80,
	})
	if err != nil {
		t.Fatalf("append u2: %v", err)
	}

	n, err := repo.DeleteUserAttempts(ctx, "u1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d rows, want 3", n)
	}

	remaining, err := repo.QueryAttempts(ctx, "u2", QueryOpts{})
	if err != nil {
		t.Fatalf("query u2: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("u2 attempts = %d, want 1 (untouched)", len(remaining))
	}
}
