package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/llm"
	"github.com/abhisek/sqlcoach/internal/questiongen"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions for a subtopic (no database)",
	Long: `Generate and interactively answer questions for a specific subtopic.

This is a stateless developer tool — no database, no mastery tracking, no events.
Useful for evaluating question quality and testing prompt changes.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("subtopic", "", "Subtopic name or ID (required)")
	previewCmd.Flags().Int("count", 5, "Number of questions to serve")
	_ = previewCmd.MarkFlagRequired("subtopic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	subVal, _ := cmd.Flags().GetString("subtopic")
	count, _ := cmd.Flags().GetInt("count")

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

	sub, err := resolveSubtopic(graph, subVal)
	if err != nil {
		return err
	}

	// Create LLM provider (no EventRepo — logging skipped).
	ctx := cmd.Context()
	provider, err := llm.NewProviderFromEnv(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen := questiongen.NewGenerator(provider, questiongen.DefaultConfig())
	grader := grading.NewGrader(provider, grading.DefaultConfig())
	scanner := bufio.NewScanner(os.Stdin)

	// Walk the clusters in order and take their bank problems until
	// count questions are queued.
	type serving struct {
		cluster curriculum.Cluster
		problem bank.Problem
	}
	var queue []serving
	for _, c := range sub.Clusters {
		if len(queue) == count {
			break
		}
		for _, p := range problems.ByCluster(c.ID) {
			if len(queue) == count {
				break
			}
			queue = append(queue, serving{cluster: c, problem: p})
		}
	}
	if len(queue) == 0 {
		return fmt.Errorf("no problems in the bank for subtopic %q", sub.Name)
	}

	fmt.Printf("Subtopic: %s — %s (%s)\n", sub.ID, sub.Name, graph.TopicNameOf(sub.ID))
	fmt.Printf("Serving %d questions...\n\n", len(queue))

	var correct int
	for i, sv := range queue {
		text := gen.Generate(ctx, questiongen.Input{
			Info:    graph.Info(sub.ID, sv.cluster),
			Problem: sv.problem,
		})

		fmt.Printf("── Question %d/%d ──\n", i+1, len(queue))
		fmt.Printf("[%s, complexity %d/%d]\n", sv.cluster.Name, sv.cluster.Complexity, curriculum.MaxComplexity)
		fmt.Println(text)

		fmt.Print("\nsql> ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		q := grading.Question{
			Text:       text,
			Difficulty: sv.problem.Difficulty,
			Concepts:   sv.cluster.SkillsTested,
		}
		j := grader.Grade(ctx, q, answer)
		if j.IsCorrect {
			correct++
			fmt.Printf("\033[32m✓ Correct!\033[0m Score: %d/100\n", j.Score)
		} else {
			fmt.Printf("\033[31m✗ Incorrect.\033[0m Score: %d/100\n", j.Score)
		}
		if j.Feedback != "" {
			fmt.Printf("Feedback: %s\n", j.Feedback)
		}
		if j.Explanation != "" {
			fmt.Printf("Explanation: %s\n", j.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, len(queue))
	return nil
}
