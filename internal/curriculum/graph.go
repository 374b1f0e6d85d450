package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Graph holds the knowledge graph with precomputed indices.
// It is immutable after Load: subtopics keep their document order, which
// is the advancement sequence walked by the progression controller.
type Graph struct {
	topics   []Topic
	sequence []Subtopic
	byID     map[string]*Subtopic
	topicOf  map[string]string
	seqIndex map[string]int
}

// document is the on-disk knowledge graph format.
type document struct {
	Topics []Topic `json:"topics"`
}

// Load reads and validates a knowledge graph from a JSON file.
// A missing file is a hard error: no session can start without a catalog.
func Load(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("knowledge graph file not found: %s", path)
		}
		return nil, fmt.Errorf("read knowledge graph %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge graph %s: %w", path, err)
	}

	return New(doc.Topics)
}

// New constructs a graph directly from topics, validating them first.
func New(topics []Topic) (*Graph, error) {
	return build(topics)
}

// build constructs the graph and its indices from parsed topics.
func build(topics []Topic) (*Graph, error) {
	if err := validateTopics(topics); err != nil {
		return nil, err
	}

	g := &Graph{
		topics:   topics,
		byID:     make(map[string]*Subtopic),
		topicOf:  make(map[string]string),
		seqIndex: make(map[string]int),
	}

	for ti := range topics {
		for si := range topics[ti].Subtopics {
			sub := &topics[ti].Subtopics[si]
			g.sequence = append(g.sequence, *sub)
			g.byID[sub.ID] = sub
			g.topicOf[sub.ID] = topics[ti].Name
			g.seqIndex[sub.ID] = len(g.sequence) - 1
		}
	}

	return g, nil
}

// Topics returns all topics in document order.
func (g *Graph) Topics() []Topic {
	return slices.Clone(g.topics)
}

// Subtopics returns all subtopics in advancement order.
func (g *Graph) Subtopics() []Subtopic {
	return slices.Clone(g.sequence)
}

// SubtopicByID returns a subtopic by id, or an error if not found.
func (g *Graph) SubtopicByID(id string) (Subtopic, error) {
	s, ok := g.byID[id]
	if !ok {
		return Subtopic{}, fmt.Errorf("subtopic not found: %q", id)
	}
	return *s, nil
}

// SubtopicByName returns the first subtopic whose name matches,
// case-insensitively. Learners type subtopic names, not ids.
func (g *Graph) SubtopicByName(name string) (Subtopic, bool) {
	for _, s := range g.sequence {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Subtopic{}, false
}

// SubtopicNames returns all subtopic names in advancement order.
func (g *Graph) SubtopicNames() []string {
	names := make([]string, len(g.sequence))
	for i, s := range g.sequence {
		names[i] = s.Name
	}
	return names
}

// SequenceIndex returns the advancement position of a subtopic id,
// or -1 if unknown.
func (g *Graph) SequenceIndex(id string) int {
	if i, ok := g.seqIndex[id]; ok {
		return i
	}
	return -1
}

// TopicNameOf returns the enclosing topic name for a subtopic id.
func (g *Graph) TopicNameOf(subtopicID string) string {
	return g.topicOf[subtopicID]
}

// ClustersOf returns the clusters of a subtopic, or nil if unknown.
func (g *Graph) ClustersOf(subtopicID string) []Cluster {
	s, ok := g.byID[subtopicID]
	if !ok {
		return nil
	}
	return slices.Clone(s.Clusters)
}

// Info builds the denormalized cluster context for a served question.
func (g *Graph) Info(subtopicID string, c Cluster) ClusterInfo {
	sub, _ := g.SubtopicByID(subtopicID)
	return ClusterInfo{
		TopicName:    g.topicOf[subtopicID],
		SubtopicID:   subtopicID,
		SubtopicName: sub.Name,
		Cluster:      c,
	}
}

// Len returns the number of subtopics in the advancement sequence.
func (g *Graph) Len() int {
	return len(g.sequence)
}
