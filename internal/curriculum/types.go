package curriculum

// Topic is a top-level curriculum area (e.g. "SQL Joins").
type Topic struct {
	Name      string     `json:"topic_name"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Subtopic is the unit of mastery. A learner works one subtopic at a
// time and must master it before the cursor advances.
type Subtopic struct {
	ID          string    `json:"subtopic_id"`
	Name        string    `json:"subtopic_name"`
	Description string    `json:"description"`
	Clusters    []Cluster `json:"clusters"`
}

// Cluster is a themed group of skills within a subtopic, tagged with a
// complexity level from 1 (introductory) to 5 (advanced).
type Cluster struct {
	ID                string   `json:"cluster_id"`
	Name              string   `json:"cluster_name"`
	Complexity        int      `json:"complexity_level"`
	LearningObjective string   `json:"learning_objective"`
	SkillsTested      []string `json:"skills_tested"`
	Description       string   `json:"description"`
}

// ClusterInfo is the denormalized cluster context attached to a served
// question: the cluster plus the names of its enclosing subtopic and topic.
type ClusterInfo struct {
	TopicName    string
	SubtopicID   string
	SubtopicName string
	Cluster      Cluster
}

// MinComplexity and MaxComplexity bound the valid cluster complexity range.
const (
	MinComplexity = 1
	MaxComplexity = 5
)
