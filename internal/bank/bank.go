// Package bank loads the read-only problem catalog served during practice.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Problem is a single question record attached to a cluster.
// Immutable once loaded.
type Problem struct {
	ID           string   `json:"problem_id"`
	SubtopicID   string   `json:"subtopic_id"`
	ClusterID    string   `json:"cluster_id"`
	Description  string   `json:"description"`
	Difficulty   string   `json:"difficulty"`
	Concepts     []string `json:"concepts"`
	BriefSummary string   `json:"brief_summary"`
}

// UnmarshalJSON accepts both the current subtopic_id key and the legacy
// topic_id key for the owning subtopic.
func (p *Problem) UnmarshalJSON(data []byte) error {
	type alias Problem
	aux := struct {
		*alias
		TopicID string `json:"topic_id"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.SubtopicID == "" {
		p.SubtopicID = aux.TopicID
	}
	return nil
}

// Bank is the indexed problem catalog.
type Bank struct {
	problems   []Problem
	byID       map[string]*Problem
	bySubtopic map[string][]Problem
	byCluster  map[string][]Problem
}

// document allows the catalog to be either a bare list or an object
// wrapping the list under a "problems" key.
type document struct {
	Problems []Problem `json:"problems"`
}

// Load reads the problem catalog from a JSON file.
// A missing file is a hard error: no session can start without problems.
func Load(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("problem bank file not found: %s", path)
		}
		return nil, fmt.Errorf("read problem bank %s: %w", path, err)
	}

	var problems []Problem
	if err := json.Unmarshal(raw, &problems); err != nil {
		var doc document
		if err2 := json.Unmarshal(raw, &doc); err2 != nil {
			return nil, fmt.Errorf("parse problem bank %s: %w", path, err)
		}
		problems = doc.Problems
	}

	return build(problems)
}

// New constructs a bank directly from problems, validating them first.
func New(problems []Problem) (*Bank, error) {
	return build(problems)
}

func build(problems []Problem) (*Bank, error) {
	b := &Bank{
		problems:   problems,
		byID:       make(map[string]*Problem, len(problems)),
		bySubtopic: make(map[string][]Problem),
		byCluster:  make(map[string][]Problem),
	}

	for i := range problems {
		p := &problems[i]
		if p.ID == "" {
			return nil, fmt.Errorf("problem at index %d has an empty problem_id", i)
		}
		if _, dup := b.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate problem_id: %q", p.ID)
		}
		b.byID[p.ID] = p

		sub := strings.ToLower(p.SubtopicID)
		b.bySubtopic[sub] = append(b.bySubtopic[sub], *p)
		if p.ClusterID != "" {
			b.byCluster[p.ClusterID] = append(b.byCluster[p.ClusterID], *p)
		}
	}

	return b, nil
}

// All returns every problem in catalog order.
func (b *Bank) All() []Problem {
	return slices.Clone(b.problems)
}

// Get returns a problem by id, or an error if not found.
func (b *Bank) Get(id string) (Problem, error) {
	p, ok := b.byID[id]
	if !ok {
		return Problem{}, fmt.Errorf("problem not found: %q", id)
	}
	return *p, nil
}

// BySubtopic returns the problems owned by a subtopic id.
// The match is case-insensitive since catalogs mix id casings.
func (b *Bank) BySubtopic(subtopicID string) []Problem {
	return slices.Clone(b.bySubtopic[strings.ToLower(subtopicID)])
}

// ByCluster returns the problems attached to a cluster id.
func (b *Bank) ByCluster(clusterID string) []Problem {
	return slices.Clone(b.byCluster[clusterID])
}

// Len returns the number of problems in the bank.
func (b *Bank) Len() int {
	return len(b.problems)
}
