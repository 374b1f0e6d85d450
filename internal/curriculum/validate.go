package curriculum

import (
	"fmt"
	"strings"
)

// validateTopics performs all structural checks on the parsed catalog.
// Returns a combined error describing all problems found, or nil if valid.
func validateTopics(topics []Topic) error {
	var errs []string

	if len(topics) == 0 {
		errs = append(errs, "knowledge graph has no topics")
	}

	idSet := make(map[string]bool)
	for _, t := range topics {
		if len(t.Subtopics) == 0 {
			errs = append(errs, fmt.Sprintf("topic %q has no subtopics", t.Name))
		}
		for _, s := range t.Subtopics {
			if s.ID == "" {
				errs = append(errs, fmt.Sprintf("topic %q contains a subtopic with an empty id", t.Name))
				continue
			}
			if idSet[s.ID] {
				errs = append(errs, fmt.Sprintf("duplicate subtopic id: %q", s.ID))
			}
			idSet[s.ID] = true

			if s.Name == "" {
				errs = append(errs, fmt.Sprintf("subtopic %q has an empty name", s.ID))
			}

			for _, c := range s.Clusters {
				if c.Complexity < MinComplexity || c.Complexity > MaxComplexity {
					errs = append(errs, fmt.Sprintf("subtopic %q cluster %q: complexity_level must be %d-%d, got %d",
						s.ID, c.ID, MinComplexity, MaxComplexity, c.Complexity))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("knowledge graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
