package bank

import (
	"path/filepath"
	"testing"
)

func loadTestBank(t *testing.T) *Bank {
	t.Helper()
	b, err := Load(filepath.Join("testdata", "problems.json"))
	if err != nil {
		t.Fatalf("load test bank: %v", err)
	}
	return b
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "does_not_exist.json"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoad_Count(t *testing.T) {
	b := loadTestBank(t)
	if b.Len() != 4 {
		t.Errorf("got %d problems, want 4", b.Len())
	}
}

func TestGet(t *testing.T) {
	b := loadTestBank(t)

	p, err := b.Get("p_ij_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ClusterID != "cl_ij_basics" {
		t.Errorf("cluster id = %q, want cl_ij_basics", p.ClusterID)
	}
	if p.Difficulty != "easy" {
		t.Errorf("difficulty = %q, want easy", p.Difficulty)
	}

	if _, err := b.Get("nope"); err == nil {
		t.Fatal("expected error for unknown problem, got nil")
	}
}

func TestBySubtopic_LegacyTopicIDKey(t *testing.T) {
	b := loadTestBank(t)

	// p_oj_001 declares its owner via the legacy topic_id key.
	got := b.BySubtopic("sub_outer_join")
	if len(got) != 1 {
		t.Fatalf("got %d problems, want 1", len(got))
	}
	if got[0].ID != "p_oj_001" {
		t.Errorf("problem id = %q, want p_oj_001", got[0].ID)
	}
	if got[0].SubtopicID != "sub_outer_join" {
		t.Errorf("subtopic id = %q, want sub_outer_join", got[0].SubtopicID)
	}
}

func TestBySubtopic_CaseInsensitive(t *testing.T) {
	b := loadTestBank(t)
	if got := b.BySubtopic("SUB_INNER_JOIN"); len(got) != 3 {
		t.Errorf("got %d problems, want 3", len(got))
	}
}

func TestByCluster(t *testing.T) {
	b := loadTestBank(t)

	if got := b.ByCluster("cl_ij_basics"); len(got) != 2 {
		t.Errorf("cl_ij_basics: got %d problems, want 2", len(got))
	}
	if got := b.ByCluster("cl_ij_multi"); len(got) != 1 {
		t.Errorf("cl_ij_multi: got %d problems, want 1", len(got))
	}
	if got := b.ByCluster("unknown"); len(got) != 0 {
		t.Errorf("unknown cluster: got %d problems, want 0", len(got))
	}
}

func TestBuild_RejectsDuplicateID(t *testing.T) {
	_, err := build([]Problem{
		{ID: "p1", SubtopicID: "s"},
		{ID: "p1", SubtopicID: "s"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate problem_id, got nil")
	}
}

func TestBuild_RejectsEmptyID(t *testing.T) {
	_, err := build([]Problem{{SubtopicID: "s"}})
	if err == nil {
		t.Fatal("expected error for empty problem_id, got nil")
	}
}
