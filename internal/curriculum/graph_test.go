package curriculum

import (
	"path/filepath"
	"testing"
)

func loadTestGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Load(filepath.Join("testdata", "knowledge_graph.json"))
	if err != nil {
		t.Fatalf("load test graph: %v", err)
	}
	return g
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "does_not_exist.json"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestSubtopics_DocumentOrder(t *testing.T) {
	g := loadTestGraph(t)

	subs := g.Subtopics()
	if len(subs) != 3 {
		t.Fatalf("got %d subtopics, want 3", len(subs))
	}

	wantOrder := []string{"sub_inner_join", "sub_outer_join", "sub_self_join"}
	for i, want := range wantOrder {
		if subs[i].ID != want {
			t.Errorf("sequence[%d] = %q, want %q", i, subs[i].ID, want)
		}
	}
}

func TestSubtopicByID(t *testing.T) {
	g := loadTestGraph(t)

	s, err := g.SubtopicByID("sub_outer_join")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "OUTER JOIN" {
		t.Errorf("got name %q, want %q", s.Name, "OUTER JOIN")
	}

	if _, err := g.SubtopicByID("nonexistent"); err == nil {
		t.Fatal("expected error for unknown subtopic, got nil")
	}
}

func TestSubtopicByName_CaseInsensitive(t *testing.T) {
	g := loadTestGraph(t)

	s, ok := g.SubtopicByName("inner join")
	if !ok {
		t.Fatal("expected to find subtopic by lowercase name")
	}
	if s.ID != "sub_inner_join" {
		t.Errorf("got id %q, want sub_inner_join", s.ID)
	}

	if _, ok := g.SubtopicByName("CROSS JOIN"); ok {
		t.Error("expected no match for unknown name")
	}
}

func TestSequenceIndex(t *testing.T) {
	g := loadTestGraph(t)

	tests := []struct {
		id   string
		want int
	}{
		{"sub_inner_join", 0},
		{"sub_outer_join", 1},
		{"sub_self_join", 2},
		{"unknown", -1},
	}
	for _, tt := range tests {
		if got := g.SequenceIndex(tt.id); got != tt.want {
			t.Errorf("SequenceIndex(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestClustersOf(t *testing.T) {
	g := loadTestGraph(t)

	clusters := g.ClustersOf("sub_inner_join")
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if clusters[0].Complexity != 1 || clusters[1].Complexity != 4 {
		t.Errorf("got complexities %d and %d, want 1 and 4",
			clusters[0].Complexity, clusters[1].Complexity)
	}

	if got := g.ClustersOf("unknown"); got != nil {
		t.Errorf("ClustersOf(unknown) = %v, want nil", got)
	}
}

func TestInfo(t *testing.T) {
	g := loadTestGraph(t)

	clusters := g.ClustersOf("sub_inner_join")
	info := g.Info("sub_inner_join", clusters[0])

	if info.TopicName != "SQL Joins" {
		t.Errorf("topic name = %q, want %q", info.TopicName, "SQL Joins")
	}
	if info.SubtopicName != "INNER JOIN" {
		t.Errorf("subtopic name = %q, want %q", info.SubtopicName, "INNER JOIN")
	}
	if info.Cluster.ID != "cl_ij_basics" {
		t.Errorf("cluster id = %q, want cl_ij_basics", info.Cluster.ID)
	}
}
