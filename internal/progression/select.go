package progression

import (
	"sort"
	"strings"

	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/mastery"
)

// selectCluster ranks clusters by how many priority concepts their skills
// cover. When nothing matches, or no priority concepts exist yet, selection
// falls back to a complexity band keyed off the running mastery score.
func (c *Controller) selectCluster(clusters []curriculum.Cluster, state *mastery.SubtopicState, priority []string) curriculum.Cluster {
	if len(priority) > 0 {
		type scored struct {
			cluster  curriculum.Cluster
			coverage int
			skills   int
		}
		ranked := make([]scored, 0, len(clusters))
		for _, cl := range clusters {
			ranked = append(ranked, scored{
				cluster:  cl,
				coverage: coverageCount(priority, cl.SkillsTested),
				skills:   len(cl.SkillsTested),
			})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].coverage != ranked[j].coverage {
				return ranked[i].coverage > ranked[j].coverage
			}
			return ranked[i].skills > ranked[j].skills
		})
		if ranked[0].coverage > 0 {
			c.log.Debug("selected cluster by weak-concept coverage",
				"cluster", ranked[0].cluster.Name, "coverage", ranked[0].coverage)
			return ranked[0].cluster
		}
	}
	return c.clusterByBand(clusters, state)
}

// clusterByBand picks a random cluster from the complexity band matching
// the learner's running mastery score. Before any attempt exists, the band
// comes from the configured initial difficulty instead.
func (c *Controller) clusterByBand(clusters []curriculum.Cluster, state *mastery.SubtopicState) curriculum.Cluster {
	var band []curriculum.Cluster

	if !c.servedAny && state.TotalAttempts == 0 {
		level := initialComplexity(c.cfg.InitialDifficulty)
		for _, cl := range clusters {
			if cl.Complexity == level {
				band = append(band, cl)
			}
		}
	} else {
		lo, hi := complexityBand(state.MasteryProbability)
		for _, cl := range clusters {
			if cl.Complexity >= lo && cl.Complexity <= hi {
				band = append(band, cl)
			}
		}
	}

	if len(band) == 0 {
		band = clusters
	}
	return band[c.rng.IntN(len(band))]
}

// complexityBand maps a running mastery score to an inclusive complexity
// range. Struggling learners stay on introductory clusters; near-mastery
// learners only see the hardest ones.
func complexityBand(score float64) (lo, hi int) {
	switch {
	case score < 0.40:
		return curriculum.MinComplexity, 2
	case score < 0.60:
		return 2, 3
	case score < 0.80:
		return 3, 4
	default:
		return 4, curriculum.MaxComplexity
	}
}

func initialComplexity(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "medium":
		return 2
	case "hard":
		return 4
	default:
		return 1
	}
}

// selectProblem scores problems by how many priority concepts and cluster
// skills their summary mentions, weighting priority concepts triple, and
// picks randomly among the top three scorers. With no priority concepts the
// pick is uniformly random.
func (c *Controller) selectProblem(problems []bank.Problem, priority []string, cluster curriculum.Cluster) bank.Problem {
	if len(priority) == 0 {
		return problems[c.rng.IntN(len(problems))]
	}

	type scored struct {
		problem bank.Problem
		score   int
	}
	ranked := make([]scored, 0, len(problems))
	for _, p := range problems {
		summary := strings.ToLower(p.BriefSummary)
		score := 0
		for _, concept := range priority {
			if concept != "" && strings.Contains(summary, strings.ToLower(concept)) {
				score += 3
			}
		}
		for _, skill := range cluster.SkillsTested {
			if skill != "" && strings.Contains(summary, strings.ToLower(skill)) {
				score++
			}
		}
		ranked = append(ranked, scored{problem: p, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	return top[c.rng.IntN(len(top))].problem
}

// coverageCount counts priority concepts matched by any cluster skill.
// Matching is case-insensitive substring in either direction, so "joins"
// matches "INNER JOIN syntax" and vice versa.
func coverageCount(priority, skills []string) int {
	n := 0
	for _, concept := range priority {
		for _, skill := range skills {
			if conceptMatches(concept, skill) {
				n++
				break
			}
		}
	}
	return n
}

func conceptMatches(concept, skill string) bool {
	if concept == "" || skill == "" {
		return false
	}
	concept = strings.ToLower(concept)
	skill = strings.ToLower(skill)
	return strings.Contains(skill, concept) || strings.Contains(concept, skill)
}
