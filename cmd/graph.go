package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Browse the knowledge graph",
}

var graphListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the subtopics in learning order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		graph, err := curriculum.Load(cfg.Paths.Graph)
		if err != nil {
			return fmt.Errorf("load knowledge graph: %w", err)
		}
		problems, err := bank.Load(cfg.Paths.Problems)
		if err != nil {
			return fmt.Errorf("load problem bank: %w", err)
		}

		fmt.Printf("%3s  %-16s  %-28s  %-24s  %8s  %8s\n",
			"#", "ID", "Name", "Topic", "Clusters", "Problems")
		fmt.Println(strings.Repeat("\u2500", 98))

		for i, sub := range graph.Subtopics() {
			name := sub.Name
			if len(name) > 28 {
				name = name[:25] + "..."
			}
			fmt.Printf("%3d  %-16s  %-28s  %-24s  %8d  %8d\n",
				i+1, sub.ID, name, truncate(graph.TopicNameOf(sub.ID), 24),
				len(sub.Clusters), len(problems.BySubtopic(sub.ID)))
		}

		fmt.Printf("\n%d subtopics\n", graph.Len())
		return nil
	},
}

var graphShowCmd = &cobra.Command{
	Use:   "show <subtopic>",
	Short: "Show a subtopic's clusters and the skills they test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		graph, err := curriculum.Load(cfg.Paths.Graph)
		if err != nil {
			return fmt.Errorf("load knowledge graph: %w", err)
		}

		sub, err := resolveSubtopic(graph, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s — %s (%s)\n", sub.ID, sub.Name, graph.TopicNameOf(sub.ID))
		if sub.Description != "" {
			fmt.Println(sub.Description)
		}
		fmt.Println()

		for _, c := range sub.Clusters {
			fmt.Printf("%s  %s  [complexity %d/%d]\n",
				c.ID, c.Name, c.Complexity, curriculum.MaxComplexity)
			if c.LearningObjective != "" {
				fmt.Printf("  Objective: %s\n", c.LearningObjective)
			}
			if len(c.SkillsTested) > 0 {
				fmt.Printf("  Skills:    %s\n", strings.Join(c.SkillsTested, ", "))
			}
			fmt.Println()
		}

		fmt.Printf("%d clusters\n", len(sub.Clusters))
		return nil
	},
}

// resolveSubtopic finds a subtopic by name first, then by ID fallback.
func resolveSubtopic(graph *curriculum.Graph, val string) (curriculum.Subtopic, error) {
	if sub, ok := graph.SubtopicByName(val); ok {
		return sub, nil
	}
	if sub, err := graph.SubtopicByID(val); err == nil {
		return sub, nil
	}
	return curriculum.Subtopic{}, fmt.Errorf("no subtopic named %q: known subtopics are %s",
		val, strings.Join(graph.SubtopicNames(), ", "))
}

func init() {
	graphCmd.AddCommand(graphListCmd)
	graphCmd.AddCommand(graphShowCmd)
}
